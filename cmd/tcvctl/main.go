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

// tcvctl checks test case spreadsheets in and out of a local version store
// without going through the HTTP API. It reads the same environment
// configuration as the server, so both operate on the same store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/repository"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/service"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

var rootCmd = &cobra.Command{
	Use:          "tcvctl",
	Short:        "Manage versioned test case spreadsheets in a local version store",
	SilenceUsage: true,
}

func main() {
	log.SetLevel(log.WarnLevel)
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newUploadCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type cliServices struct {
	excelService          service.ExcelService
	versionControlService service.VersionControlService
}

func buildServices() (*cliServices, error) {
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		return nil, err
	}
	versionStorageDir := resolveStorageDir(systemInfoService.GetBasePath(), systemInfoService.GetVersionStorageDir())
	excelService := service.NewExcelService()
	storageService := service.NewTestCaseStorageService(versionStorageDir, excelService)
	historyRepository := repository.NewVersionHistoryRepository(versionStorageDir)
	versionControlService := service.NewVersionControlService(
		storageService,
		historyRepository,
		excelService,
		service.NewVersionDiffService(),
		service.NewNotificationService(systemInfoService.GetNotificationWebhookUrl()),
		service.NewDocumentStorageService(systemInfoService.GetObjectStorageCreds()),
		nil)
	return &cliServices{
		excelService:          excelService,
		versionControlService: versionControlService,
	}, nil
}

// resolveStorageDir mirrors the server's handling of VERSION_STORAGE_DIR: a
// relative dir is anchored at the base path, so CLI and server share one store.
func resolveStorageDir(basePath string, storageDir string) string {
	if filepath.IsAbs(storageDir) {
		return storageDir
	}
	return filepath.Join(basePath, storageDir)
}

func printJson(payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func newCreateCmd() *cobra.Command {
	var comment string
	var changedBy string
	var skipNotification bool
	cmd := &cobra.Command{
		Use:   "create <file.xlsx>",
		Short: "Check a test case spreadsheet in as a new version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := buildServices()
			if err != nil {
				return err
			}
			table, err := services.excelService.ReadTestCaseTable(args[0])
			if err != nil {
				return err
			}
			result, err := services.versionControlService.CreateNewVersion(*table, view.CheckInOptions{
				Comment:          comment,
				ChangedBy:        changedBy,
				SkipNotification: skipNotification,
			})
			if err != nil {
				return err
			}
			return printJson(result)
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "check-in comment")
	cmd.Flags().StringVar(&changedBy, "changed-by", "", "who performed the check-in")
	cmd.Flags().BoolVar(&skipNotification, "skip-notify", false, "do not notify the test case owner")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <testCaseId>",
		Short: "Show the version history of a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := buildServices()
			if err != nil {
				return err
			}
			history, err := services.versionControlService.GetVersionHistory(args[0])
			if err != nil {
				return err
			}
			return printJson(history)
		},
	}
}

func newExportCmd() *cobra.Command {
	var version string
	var output string
	cmd := &cobra.Command{
		Use:   "export <testCaseId>",
		Short: "Export a stored version to an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := buildServices()
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("%s.xlsx", args[0])
			}
			exportedPath, err := services.versionControlService.ExportVersionToFile(args[0], output, version)
			if err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", exportedPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&version, "version", "", "version to export, latest when empty")
	cmd.Flags().StringVar(&output, "out", "", "output file path")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var version string
	cmd := &cobra.Command{
		Use:   "compare <testCaseId> <previousVersion>",
		Short: "Compare two versions of a test case step by step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := buildServices()
			if err != nil {
				return err
			}
			comparison, err := services.versionControlService.CompareVersions(args[0], args[1], version)
			if err != nil {
				return err
			}
			return printJson(comparison)
		},
	}
	cmd.Flags().StringVar(&version, "version", "", "version to compare against, latest when empty")
	return cmd
}

func newUploadCmd() *cobra.Command {
	var version string
	var folder string
	cmd := &cobra.Command{
		Use:   "upload <testCaseId>",
		Short: "Upload a stored version to document storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := buildServices()
			if err != nil {
				return err
			}
			result, err := services.versionControlService.UploadVersionToDocumentStorage(context.Background(), args[0], version, folder)
			if err != nil {
				return err
			}
			return printJson(result)
		},
	}
	cmd.Flags().StringVar(&version, "version", "", "version to upload, latest when empty")
	cmd.Flags().StringVar(&folder, "folder", "", "target folder in the storage bucket")
	return cmd
}
