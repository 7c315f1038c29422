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
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/testcasehub/testcasehub-backend/testcasehub-service/view"
	"golang.org/x/time/rate"
)

// NotificationService posts owner notifications to the configured webhook.
// Delivery is best-effort: failures are logged and never propagated to the
// check-in that triggered them.
type NotificationService interface {
	SendNotification(notification view.OwnerNotification) error
}

func NewNotificationService(webhookUrl string) NotificationService {
	client := resty.New().
		SetTimeout(time.Second * 15).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)
	return &notificationServiceImpl{
		webhookUrl: webhookUrl,
		client:     client,
		// bulk check-ins must not flood the webhook
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

type notificationServiceImpl struct {
	webhookUrl string
	client     *resty.Client
	limiter    *rate.Limiter
}

func (n notificationServiceImpl) SendNotification(notification view.OwnerNotification) error {
	if n.webhookUrl == "" {
		log.Debugf("Notification webhook is not configured, skipping notification for %s", notification.Recipient)
		return nil
	}
	if !n.limiter.Allow() {
		log.Warnf("Notification rate limit exceeded, dropping notification for %s", notification.Recipient)
		return nil
	}
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(notification).
		Post(n.webhookUrl)
	if err != nil {
		return fmt.Errorf("failed to send notification to %s: %w", notification.Recipient, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("failed to send notification to %s: response status %v", notification.Recipient, resp.StatusCode())
	}
	return nil
}
