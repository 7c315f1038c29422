// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/controller"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/db"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/metrics"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/middleware"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/repository"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/security"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/service"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

func init() {
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		ForceFormatting: true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

func main() {
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		log.Fatalf("Failed to read system configuration: %s", err.Error())
	}

	basePath := systemInfoService.GetBasePath()
	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   filepath.Join(basePath, "logs", "testcasehub.log"),
		MaxSize:    10,
		MaxBackups: 5,
		Compress:   true,
	}))
	if logLevel, err := log.ParseLevel(systemInfoService.GetLogLevel()); err == nil {
		log.SetLevel(logLevel)
	}

	versionStorageDir := systemInfoService.GetVersionStorageDir()
	if !filepath.IsAbs(versionStorageDir) {
		versionStorageDir = filepath.Join(basePath, versionStorageDir)
	}

	excelService := service.NewExcelService()
	storageService := service.NewTestCaseStorageService(versionStorageDir, excelService)
	historyRepository := repository.NewVersionHistoryRepository(versionStorageDir)
	diffService := service.NewVersionDiffService()
	notificationService := service.NewNotificationService(systemInfoService.GetNotificationWebhookUrl())
	documentStorageService := service.NewDocumentStorageService(systemInfoService.GetObjectStorageCreds())
	versionControlService := service.NewVersionControlService(
		storageService,
		historyRepository,
		excelService,
		diffService,
		notificationService,
		documentStorageService,
		nil)
	apiKeyService := service.NewApiKeyService(systemInfoService)

	var metadataService service.MetadataService
	if systemInfoService.MetadataStorageEnabled() {
		connectionProvider := db.NewConnectionProvider(systemInfoService.GetCredsFromEnv())
		metadataRepository, err := repository.NewTestCaseMetadataRepositoryPG(connectionProvider)
		if err != nil {
			log.Fatalf("Failed to create metadata repository: %s", err.Error())
		}
		metadataService = service.NewMetadataService(metadataRepository)
	} else {
		log.Info("Metadata storage is not configured, metadata endpoints are disabled")
	}

	storageCleanupService := service.NewStorageCleanupService(storageService, historyRepository)
	if err := storageCleanupService.CreateCleanupJob(systemInfoService.GetTempCleanupSchedule()); err != nil {
		log.Errorf("Failed to create version store cleanup job: %s", err.Error())
	}

	if err := security.SetupGoGuardian(apiKeyService); err != nil {
		log.Fatalf("Failed to set up authentication: %s", err.Error())
	}

	versionController := controller.NewVersionController(versionControlService, excelService, metadataService)
	exportController := controller.NewExportController(versionControlService, excelService)
	cleanupController := controller.NewCleanupController(storageCleanupService)
	systemInfoController := controller.NewSystemInfoController(systemInfoService)
	readyChan := make(chan bool)
	healthController := controller.NewHealthController(readyChan)

	metrics.RegisterAllPrometheusApplicationMetrics()

	r := mux.NewRouter()
	r.Use(middleware.PrometheusMiddleware)

	r.HandleFunc("/api/v1/testCases/versions", security.Secure(versionController.CreateVersion)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/testCases/{testCaseId}/versions", security.Secure(versionController.GetVersionHistory)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/testCases/{testCaseId}/versions/{version}", security.Secure(versionController.GetVersionContent)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/testCases/{testCaseId}/versions/{version}/export", security.Secure(exportController.ExportVersion)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/testCases/{testCaseId}/changes", security.Secure(versionController.CompareVersions)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/testCases/{testCaseId}/versions/{version}/upload", security.Secure(versionController.UploadVersion)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/testCases/{testCaseId}/maintenance", security.Secure(versionController.StartMaintenance)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/testCases/{testCaseId}/activation", security.Secure(versionController.FinishMaintenance)).Methods(http.MethodPost)

	if metadataService != nil {
		metadataController := controller.NewMetadataController(metadataService)
		r.HandleFunc("/api/v1/testCases", security.Secure(metadataController.ListMetadata)).Methods(http.MethodGet)
		r.HandleFunc("/api/v1/testCases/{testCaseId}", security.Secure(metadataController.GetMetadata)).Methods(http.MethodGet)
		r.HandleFunc("/api/v1/testCases/{testCaseId}", security.Secure(metadataController.UpdateMetadata)).Methods(http.MethodPatch)
		r.HandleFunc("/api/v1/testCases/{testCaseId}", security.Secure(metadataController.DeleteMetadata)).Methods(http.MethodDelete)
	}

	r.HandleFunc("/api/v1/admin/cleanup", security.Secure(cleanupController.StartStorageCleanup)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/admin/cleanup/{id}", security.Secure(cleanupController.GetStorageCleanupResult)).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/system/info", security.Secure(systemInfoController.GetSystemInfo)).Methods(http.MethodGet)
	r.Handle("/metrics", security.Secure(promhttp.Handler().ServeHTTP)).Methods(http.MethodGet)
	r.HandleFunc("/live", security.NoSecure(healthController.HandleLiveRequest)).Methods(http.MethodGet)
	r.HandleFunc("/ready", security.NoSecure(healthController.HandleReadyRequest)).Methods(http.MethodGet)

	readyChan <- true

	originsOk := handlers.AllowedOrigins([]string{systemInfoService.GetOriginAllowed()})
	headersOk := handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization", "api-key"})
	methodsOk := handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions, http.MethodDelete})

	srv := &http.Server{
		Handler:      handlers.CORS(originsOk, headersOk, methodsOk)(r),
		Addr:         systemInfoService.GetListenAddress(),
		WriteTimeout: 300 * time.Second,
		ReadTimeout:  30 * time.Second,
	}

	log.Infof("Starting test case hub backend on %s", systemInfoService.GetListenAddress())
	log.Fatalf("Server stopped: %v", srv.ListenAndServe())
}
