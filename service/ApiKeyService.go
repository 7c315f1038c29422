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
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	"golang.org/x/crypto/bcrypt"
)

// ApiKeyService verifies incoming API keys against the configured bcrypt
// hashes. Successful verifications are cached since bcrypt compares are
// deliberately slow.
type ApiKeyService interface {
	VerifyApiKey(apiKey string) bool
}

func NewApiKeyService(systemInfoService SystemInfoService) ApiKeyService {
	cache := libcache.LRU.New(1000)
	cache.SetTTL(time.Minute * 60)
	return &apiKeyServiceImpl{
		apiKeyHashes:  systemInfoService.GetApiKeyHashes(),
		verifiedCache: cache,
	}
}

type apiKeyServiceImpl struct {
	apiKeyHashes  []string
	verifiedCache libcache.Cache
}

func (a apiKeyServiceImpl) VerifyApiKey(apiKey string) bool {
	if apiKey == "" || len(a.apiKeyHashes) == 0 {
		return false
	}
	cacheKey := makeApiKeyCacheKey(apiKey)
	if _, verified := a.verifiedCache.Load(cacheKey); verified {
		return true
	}
	for _, hash := range a.apiKeyHashes {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey)); err == nil {
			a.verifiedCache.Store(cacheKey, struct{}{})
			return true
		}
	}
	return false
}

// raw keys never go into the cache
func makeApiKeyCacheKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}
