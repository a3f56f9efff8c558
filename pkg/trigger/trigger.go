package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bridgeit/bridgeit-api/pkg/circuitbreaker"
	"github.com/bridgeit/bridgeit-api/pkg/httpclient"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"github.com/bridgeit/bridgeit-api/pkg/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// emailBreaker trips when the notification webhook keeps failing, so a dead
// downstream does not accumulate goroutines retrying against it.
var emailBreaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("email-trigger"))

// CallAsyncWithPayload posts a JSON payload to a trigger URL in the
// background. This is how OTP codes and other notifications reach the email
// dispatch function. Failures are logged and counted but never block or fail
// the operation that raised the event.
func CallAsyncWithPayload(triggerURL string, payload map[string]interface{}, httpClient httpclient.Client) {
	if triggerURL == "" {
		// No trigger URL configured, skip silently
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		body, err := json.Marshal(payload)
		if err != nil {
			logger.Error("Failed to marshal trigger payload",
				zap.Error(err),
				zap.String("url", triggerURL))
			metrics.EmailTriggerCalls.WithLabelValues("marshal_error").Inc()
			return
		}

		err = retry.Do(ctx, retry.EmailTriggerConfig(), "email_trigger", func() error {
			_, callErr := circuitbreaker.Execute(emailBreaker, func() (struct{}, error) {
				return struct{}{}, postOnce(triggerURL, body, httpClient)
			})
			return callErr
		})
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", triggerURL))
			metrics.EmailTriggerCalls.WithLabelValues("error").Inc()
			return
		}

		metrics.EmailTriggerCalls.WithLabelValues("success").Inc()
		logger.Info("Trigger URL called successfully", zap.String("url", triggerURL))
	}()
}

func postOnce(triggerURL string, body []byte, httpClient httpclient.Client) error {
	resp, err := httpClient.Post(triggerURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("trigger returned status %d", resp.StatusCode)
	}
	return nil
}

// BreakerOpen reports whether the email trigger breaker is currently open.
// Exposed for the health endpoint.
func BreakerOpen() bool {
	return emailBreaker.State() == gobreaker.StateOpen
}
