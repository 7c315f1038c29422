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

package security

import (
	goctx "context"
	"fmt"
	"net/http"

	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/service"
)

const ApiKeyHeader = "api-key"

func NewApiKeyStrategy(apiKeyService service.ApiKeyService) auth.Strategy {
	return &apiKeyStrategyImpl{apiKeyService: apiKeyService}
}

type apiKeyStrategyImpl struct {
	apiKeyService service.ApiKeyService
}

func (a apiKeyStrategyImpl) Authenticate(ctx goctx.Context, r *http.Request) (auth.Info, error) {
	apiKey := r.Header.Get(ApiKeyHeader)
	if apiKey == "" {
		return nil, fmt.Errorf("authentication failed: header '%v' is empty", ApiKeyHeader)
	}
	if !a.apiKeyService.VerifyApiKey(apiKey) {
		return nil, fmt.Errorf("authentication failed: '%v' doesn't exist or invalid", ApiKeyHeader)
	}
	return auth.NewDefaultUser("api-key-client", "api-key-client", []string{}, auth.Extensions{}), nil
}
