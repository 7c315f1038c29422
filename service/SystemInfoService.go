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

package service

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

const (
	ARTIFACT_DESCRIPTOR_VERSION            = "ARTIFACT_DESCRIPTOR_VERSION"
	BASE_PATH                              = "BASE_PATH"
	PRODUCTION_MODE                        = "PRODUCTION_MODE"
	LOG_LEVEL                              = "LOG_LEVEL"
	LISTEN_ADDRESS                         = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED                         = "ORIGIN_ALLOWED"
	VERSION_STORAGE_DIR                    = "VERSION_STORAGE_DIR"
	TESTCASEHUB_POSTGRESQL_HOST            = "TESTCASEHUB_POSTGRESQL_HOST"
	TESTCASEHUB_POSTGRESQL_PORT            = "TESTCASEHUB_POSTGRESQL_PORT"
	TESTCASEHUB_POSTGRESQL_DB_NAME         = "TESTCASEHUB_POSTGRESQL_DB_NAME"
	TESTCASEHUB_POSTGRESQL_USERNAME        = "TESTCASEHUB_POSTGRESQL_USERNAME"
	TESTCASEHUB_POSTGRESQL_PASSWORD        = "TESTCASEHUB_POSTGRESQL_PASSWORD"
	PG_SSL_MODE                            = "PG_SSL_MODE"
	STORAGE_SERVER_USERNAME                = "STORAGE_SERVER_USERNAME"
	STORAGE_SERVER_PASSWORD                = "STORAGE_SERVER_PASSWORD"
	STORAGE_SERVER_CRT                     = "STORAGE_SERVER_CRT"
	STORAGE_SERVER_URL                     = "STORAGE_SERVER_URL"
	STORAGE_SERVER_BUCKET_NAME             = "STORAGE_SERVER_BUCKET_NAME"
	STORAGE_SERVER_ACTIVE                  = "STORAGE_SERVER_ACTIVE"
	NOTIFICATION_WEBHOOK_URL               = "NOTIFICATION_WEBHOOK_URL"
	TEMP_CLEANUP_SCHEDULE                  = "TEMP_CLEANUP_SCHEDULE"
	TESTCASEHUB_API_KEYS                   = "TESTCASEHUB_API_KEYS"
)

type SystemInfoService interface {
	GetSystemInfo() *view.SystemInfo
	Init() error
	GetBasePath() string
	IsProductionMode() bool
	GetBackendVersion() string
	GetLogLevel() string
	GetListenAddress() string
	GetOriginAllowed() string
	GetVersionStorageDir() string
	GetPGHost() string
	GetPGPort() int
	GetPGDB() string
	GetPGUser() string
	GetPGPassword() string
	GetPGSSLMode() string
	GetCredsFromEnv() *view.DbCredentials
	MetadataStorageEnabled() bool
	GetObjectStorageAccessKeyId() string
	GetObjectStorageSecretAccessKey() string
	GetObjectStorageCrt() string
	GetObjectStorageEndpoint() string
	GetObjectStorageBucketName() string
	IsObjectStorageActive() bool
	GetObjectStorageCreds() *view.ObjectStorageCreds
	GetNotificationWebhookUrl() string
	GetTempCleanupSchedule() string
	GetApiKeyHashes() []string
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) GetSystemInfo() *view.SystemInfo {
	return &view.SystemInfo{
		BackendVersion: g.GetBackendVersion(),
		ProductionMode: g.IsProductionMode(),
	}
}

func (g systemInfoServiceImpl) GetCredsFromEnv() *view.DbCredentials {
	return &view.DbCredentials{
		Host:     g.GetPGHost(),
		Port:     g.GetPGPort(),
		Database: g.GetPGDB(),
		Username: g.GetPGUser(),
		Password: g.GetPGPassword(),
		SSLMode:  g.GetPGSSLMode(),
	}
}

func (g systemInfoServiceImpl) GetObjectStorageCreds() *view.ObjectStorageCreds {
	return &view.ObjectStorageCreds{
		BucketName:      g.GetObjectStorageBucketName(),
		IsActive:        g.IsObjectStorageActive(),
		Endpoint:        g.GetObjectStorageEndpoint(),
		Crt:             g.GetObjectStorageCrt(),
		AccessKeyId:     g.GetObjectStorageAccessKeyId(),
		SecretAccessKey: g.GetObjectStorageSecretAccessKey(),
	}
}

func (g systemInfoServiceImpl) Init() error {
	g.setBasePath()
	if err := g.setProductionMode(); err != nil {
		return err
	}
	g.setBackendVersion()
	g.setLogLevel()
	g.setListenAddress()
	g.setOriginAllowed()
	g.setVersionStorageDir()
	g.setPGHost()
	if err := g.setPGPort(); err != nil {
		return err
	}
	g.setPGDB()
	g.setPGUser()
	g.setPGPassword()
	g.setPGSSLMode()
	g.setObjectStorageAccessKeyId()
	g.setObjectStorageSecretAccessKey()
	g.setObjectStorageCrt()
	g.setObjectStorageEndpoint()
	g.setObjectStorageBucketName()
	if err := g.setObjectStorageActive(); err != nil {
		return err
	}
	g.setNotificationWebhookUrl()
	g.setTempCleanupSchedule()
	g.setApiKeyHashes()

	return nil
}

func (g systemInfoServiceImpl) setBasePath() {
	g.systemInfoMap[BASE_PATH] = os.Getenv(BASE_PATH)
	if g.systemInfoMap[BASE_PATH] == "" {
		g.systemInfoMap[BASE_PATH] = "."
	}
}

func (g systemInfoServiceImpl) GetBasePath() string {
	return g.systemInfoMap[BASE_PATH].(string)
}

func (g systemInfoServiceImpl) setProductionMode() error {
	envVal := os.Getenv(PRODUCTION_MODE)
	if envVal == "" {
		envVal = "false"
	}
	productionMode, err := strconv.ParseBool(envVal)
	if err != nil {
		return fmt.Errorf("failed to parse %v env value: %v", PRODUCTION_MODE, err.Error())
	}
	g.systemInfoMap[PRODUCTION_MODE] = productionMode
	return nil
}

func (g systemInfoServiceImpl) IsProductionMode() bool {
	return g.systemInfoMap[PRODUCTION_MODE].(bool)
}

func (g systemInfoServiceImpl) setBackendVersion() {
	version := os.Getenv(ARTIFACT_DESCRIPTOR_VERSION)
	if version == "" {
		version = "unknown"
	}
	g.systemInfoMap[ARTIFACT_DESCRIPTOR_VERSION] = version
}

func (g systemInfoServiceImpl) GetBackendVersion() string {
	return g.systemInfoMap[ARTIFACT_DESCRIPTOR_VERSION].(string)
}

func (g systemInfoServiceImpl) setLogLevel() {
	g.systemInfoMap[LOG_LEVEL] = os.Getenv(LOG_LEVEL)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.systemInfoMap[LOG_LEVEL].(string)
}

func (g systemInfoServiceImpl) setListenAddress() {
	listenAddress := os.Getenv(LISTEN_ADDRESS)
	if listenAddress == "" {
		listenAddress = ":8080"
	}
	g.systemInfoMap[LISTEN_ADDRESS] = listenAddress
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.systemInfoMap[LISTEN_ADDRESS].(string)
}

func (g systemInfoServiceImpl) setOriginAllowed() {
	g.systemInfoMap[ORIGIN_ALLOWED] = os.Getenv(ORIGIN_ALLOWED)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.systemInfoMap[ORIGIN_ALLOWED].(string)
}

func (g systemInfoServiceImpl) setVersionStorageDir() {
	storageDir := os.Getenv(VERSION_STORAGE_DIR)
	if storageDir == "" {
		storageDir = "storage/test_case_versions"
	}
	g.systemInfoMap[VERSION_STORAGE_DIR] = storageDir
}

func (g systemInfoServiceImpl) GetVersionStorageDir() string {
	return g.systemInfoMap[VERSION_STORAGE_DIR].(string)
}

func (g systemInfoServiceImpl) setPGHost() {
	g.systemInfoMap[TESTCASEHUB_POSTGRESQL_HOST] = os.Getenv(TESTCASEHUB_POSTGRESQL_HOST)
}

func (g systemInfoServiceImpl) GetPGHost() string {
	return g.systemInfoMap[TESTCASEHUB_POSTGRESQL_HOST].(string)
}

func (g systemInfoServiceImpl) setPGPort() error {
	envVal := os.Getenv(TESTCASEHUB_POSTGRESQL_PORT)
	if envVal == "" {
		envVal = "5432"
	}
	port, err := strconv.Atoi(envVal)
	if err != nil {
		return fmt.Errorf("failed to parse %v env value: %v", TESTCASEHUB_POSTGRESQL_PORT, err.Error())
	}
	g.systemInfoMap[TESTCASEHUB_POSTGRESQL_PORT] = port
	return nil
}

func (g systemInfoServiceImpl) GetPGPort() int {
	return g.systemInfoMap[TESTCASEHUB_POSTGRESQL_PORT].(int)
}

func (g systemInfoServiceImpl) setPGDB() {
	database := os.Getenv(TESTCASEHUB_POSTGRESQL_DB_NAME)
	if database == "" {
		database = "testcasehub"
	}
	g.systemInfoMap[TESTCASEHUB_POSTGRESQL_DB_NAME] = database
}

func (g systemInfoServiceImpl) GetPGDB() string {
	return g.systemInfoMap[TESTCASEHUB_POSTGRESQL_DB_NAME].(string)
}

func (g systemInfoServiceImpl) setPGUser() {
	g.systemInfoMap[TESTCASEHUB_POSTGRESQL_USERNAME] = os.Getenv(TESTCASEHUB_POSTGRESQL_USERNAME)
}

func (g systemInfoServiceImpl) GetPGUser() string {
	return g.systemInfoMap[TESTCASEHUB_POSTGRESQL_USERNAME].(string)
}

func (g systemInfoServiceImpl) setPGPassword() {
	g.systemInfoMap[TESTCASEHUB_POSTGRESQL_PASSWORD] = os.Getenv(TESTCASEHUB_POSTGRESQL_PASSWORD)
}

func (g systemInfoServiceImpl) GetPGPassword() string {
	return g.systemInfoMap[TESTCASEHUB_POSTGRESQL_PASSWORD].(string)
}

func (g systemInfoServiceImpl) setPGSSLMode() {
	sslMode := os.Getenv(PG_SSL_MODE)
	if sslMode == "" {
		sslMode = "disable"
	}
	g.systemInfoMap[PG_SSL_MODE] = sslMode
}

func (g systemInfoServiceImpl) GetPGSSLMode() string {
	return g.systemInfoMap[PG_SSL_MODE].(string)
}

// MetadataStorageEnabled reports whether the metadata database is configured.
// The versioning core works without it.
func (g systemInfoServiceImpl) MetadataStorageEnabled() bool {
	return g.GetPGHost() != ""
}

func (g systemInfoServiceImpl) setObjectStorageAccessKeyId() {
	g.systemInfoMap[STORAGE_SERVER_USERNAME] = os.Getenv(STORAGE_SERVER_USERNAME)
}

func (g systemInfoServiceImpl) GetObjectStorageAccessKeyId() string {
	return g.systemInfoMap[STORAGE_SERVER_USERNAME].(string)
}

func (g systemInfoServiceImpl) setObjectStorageSecretAccessKey() {
	g.systemInfoMap[STORAGE_SERVER_PASSWORD] = os.Getenv(STORAGE_SERVER_PASSWORD)
}

func (g systemInfoServiceImpl) GetObjectStorageSecretAccessKey() string {
	return g.systemInfoMap[STORAGE_SERVER_PASSWORD].(string)
}

func (g systemInfoServiceImpl) setObjectStorageCrt() {
	g.systemInfoMap[STORAGE_SERVER_CRT] = os.Getenv(STORAGE_SERVER_CRT)
}

func (g systemInfoServiceImpl) GetObjectStorageCrt() string {
	return g.systemInfoMap[STORAGE_SERVER_CRT].(string)
}

func (g systemInfoServiceImpl) setObjectStorageEndpoint() {
	g.systemInfoMap[STORAGE_SERVER_URL] = os.Getenv(STORAGE_SERVER_URL)
}

func (g systemInfoServiceImpl) GetObjectStorageEndpoint() string {
	return g.systemInfoMap[STORAGE_SERVER_URL].(string)
}

func (g systemInfoServiceImpl) setObjectStorageBucketName() {
	g.systemInfoMap[STORAGE_SERVER_BUCKET_NAME] = os.Getenv(STORAGE_SERVER_BUCKET_NAME)
}

func (g systemInfoServiceImpl) GetObjectStorageBucketName() string {
	return g.systemInfoMap[STORAGE_SERVER_BUCKET_NAME].(string)
}

func (g systemInfoServiceImpl) setObjectStorageActive() error {
	envVal := os.Getenv(STORAGE_SERVER_ACTIVE)
	if envVal == "" {
		envVal = "false"
	}
	isActive, err := strconv.ParseBool(envVal)
	if err != nil {
		return fmt.Errorf("failed to parse %v env value: %v", STORAGE_SERVER_ACTIVE, err.Error())
	}
	g.systemInfoMap[STORAGE_SERVER_ACTIVE] = isActive
	return nil
}

func (g systemInfoServiceImpl) IsObjectStorageActive() bool {
	return g.systemInfoMap[STORAGE_SERVER_ACTIVE].(bool)
}

func (g systemInfoServiceImpl) setNotificationWebhookUrl() {
	g.systemInfoMap[NOTIFICATION_WEBHOOK_URL] = os.Getenv(NOTIFICATION_WEBHOOK_URL)
}

func (g systemInfoServiceImpl) GetNotificationWebhookUrl() string {
	return g.systemInfoMap[NOTIFICATION_WEBHOOK_URL].(string)
}

func (g systemInfoServiceImpl) setTempCleanupSchedule() {
	schedule := os.Getenv(TEMP_CLEANUP_SCHEDULE)
	if schedule == "" {
		schedule = "0 1 * * *"
	}
	g.systemInfoMap[TEMP_CLEANUP_SCHEDULE] = schedule
}

func (g systemInfoServiceImpl) GetTempCleanupSchedule() string {
	return g.systemInfoMap[TEMP_CLEANUP_SCHEDULE].(string)
}

func (g systemInfoServiceImpl) setApiKeyHashes() {
	hashes := make([]string, 0)
	for _, hash := range strings.Split(os.Getenv(TESTCASEHUB_API_KEYS), ",") {
		if trimmed := strings.TrimSpace(hash); trimmed != "" {
			hashes = append(hashes, trimmed)
		}
	}
	g.systemInfoMap[TESTCASEHUB_API_KEYS] = hashes
}

func (g systemInfoServiceImpl) GetApiKeyHashes() []string {
	return g.systemInfoMap[TESTCASEHUB_API_KEYS].([]string)
}
