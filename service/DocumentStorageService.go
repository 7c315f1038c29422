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
	"context"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
)

// DocumentStorageService uploads exported version files to the external
// document repository (an S3 compatible object storage bucket).
type DocumentStorageService interface {
	IsActive() bool
	UploadDocument(ctx context.Context, localPath string, remoteFolder string, remoteFileName string) (*view.UploadResult, error)
}

func NewDocumentStorageService(creds *view.ObjectStorageCreds) DocumentStorageService {
	return &documentStorageServiceImpl{
		storageClient: createStorageClient(creds),
		creds:         creds,
	}
}

type documentStorageServiceImpl struct {
	storageClient *storageClient
	creds         *view.ObjectStorageCreds
}

type storageClient struct {
	client *minio.Client
	error  error
}

func (d documentStorageServiceImpl) IsActive() bool {
	return d.creds.IsActive && d.storageClient.error == nil
}

func (d documentStorageServiceImpl) UploadDocument(ctx context.Context, localPath string, remoteFolder string, remoteFileName string) (*view.UploadResult, error) {
	if d.storageClient.error != nil {
		return nil, fmt.Errorf("document storage is not available: %w", d.storageClient.error)
	}
	if err := d.createBucketIfNotExists(ctx); err != nil {
		return nil, err
	}
	objectName := remoteFileName
	if remoteFolder != "" {
		objectName = fmt.Sprintf("%s/%s", strings.Trim(remoteFolder, "/"), remoteFileName)
	}
	_, err := d.storageClient.client.FPutObject(ctx, d.creds.BucketName, objectName, localPath,
		minio.PutObjectOptions{ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"})
	if err != nil {
		return nil, err
	}
	return &view.UploadResult{
		Url:  fmt.Sprintf("https://%s/%s/%s", d.creds.Endpoint, d.creds.BucketName, objectName),
		Path: objectName,
	}, nil
}

func (d documentStorageServiceImpl) createBucketIfNotExists(ctx context.Context) error {
	exists, err := d.storageClient.client.BucketExists(ctx, d.creds.BucketName)
	if err != nil {
		return err
	}
	if !exists {
		err = d.storageClient.client.MakeBucket(ctx, d.creds.BucketName, minio.MakeBucketOptions{})
		if err != nil {
			return err
		}
		log.Infof("Document storage bucket %s was created", d.creds.BucketName)
	}
	return nil
}

func createStorageClient(creds *view.ObjectStorageCreds) *storageClient {
	client := new(storageClient)
	if !creds.IsActive {
		client.error = errors.New("document storage is not enabled")
		return client
	}
	tr, err := minio.DefaultTransport(true)
	if err != nil {
		log.Warnf("error creating the document storage connection: error creating the default transport layer: %v", err)
		client.error = err
		return client
	}
	if creds.Crt != "" {
		decodedCert, err := base64.StdEncoding.DecodeString(creds.Crt)
		if err != nil {
			log.Warn(err.Error())
			client.error = err
			return client
		}
		rootCAs := mustGetSystemCertPool()
		rootCAs.AppendCertsFromPEM(decodedCert)
		tr.TLSClientConfig.RootCAs = rootCAs
	}

	minioClient, err := minio.New(creds.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(creds.AccessKeyId, creds.SecretAccessKey, ""),
		Secure:    true,
		Transport: tr,
	})
	if err != nil {
		if strings.Contains(err.Error(), "endpoint") {
			err = errors.New("invalid storage URL")
		}
		log.Warn(err.Error())
		client.error = err
		return client
	}
	log.Infof("Document storage client initialized for endpoint %s", creds.Endpoint)
	client.client = minioClient
	return client
}

func mustGetSystemCertPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return x509.NewCertPool()
	}
	return pool
}
