package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeNotModified
	outcomeAuthExpired
	outcomeForbidden
	outcomeRateLimited
	outcomeFailed
)

// outcome is the result of classifying a response. Classification is pure;
// notifications, telemetry and error-state updates are dispatched separately
// by the pipeline.
type outcome struct {
	kind       outcomeKind
	status     int
	body       json.RawMessage
	message    string
	retryAfter int
	quota      *QuotaErrorDetails
	aiDisabled *AIDisabledDetails
}

// Backend discriminators for the two application-specific 4xx shapes.
const (
	discriminatorQuotaExceeded = "QuotaExceeded"
	discriminatorAIDisabled    = "AIDisabled"
)

const (
	sessionExpiredMessage = "Your session has expired. Please log in again."
	accessDeniedMessage   = "Access denied"
	defaultRetryAfter     = 60
)

var emptyBody = json.RawMessage("{}")

// classify maps an HTTP response onto an outcome, extracting a
// human-readable message from whichever error shape the backend used.
// First match wins, in this order: 304 on GET, 401, 403, 429, any other
// non-2xx, 204, success.
func classify(method string, status int, header http.Header, body []byte) outcome {
	switch {
	case status == http.StatusNotModified && method == http.MethodGet:
		return outcome{kind: outcomeNotModified, status: status, body: emptyBody}

	case status == http.StatusUnauthorized:
		return classifyAuthExpired(status, body)

	case status == http.StatusForbidden:
		return classifyForbidden(status, body)

	case status == http.StatusTooManyRequests:
		return classifyRateLimited(status, header, body)

	case status < 200 || status >= 300:
		fields, _ := parseErrorBody(body)
		return outcome{
			kind:    outcomeFailed,
			status:  status,
			message: extractMessage(fields, fallbackMessage, genericChain...),
		}

	case status == http.StatusNoContent:
		return outcome{kind: outcomeSuccess, status: status, body: emptyBody}

	default:
		if len(body) == 0 {
			return outcome{kind: outcomeSuccess, status: status, body: emptyBody}
		}
		return outcome{kind: outcomeSuccess, status: status, body: json.RawMessage(body)}
	}
}

func classifyAuthExpired(status int, body []byte) outcome {
	fields, _ := parseErrorBody(body)
	return outcome{
		kind:    outcomeAuthExpired,
		status:  status,
		message: extractMessage(fields, sessionExpiredMessage, authChain...),
	}
}

func classifyForbidden(status int, body []byte) outcome {
	fields, ok := parseErrorBody(body)
	if ok {
		if discriminator, _ := fields.stringField("error"); discriminator == discriminatorAIDisabled {
			var details AIDisabledDetails
			fields.detailsField(&details)
			message := "AI features are disabled for your organization"
			if reason := strings.TrimSpace(details.Reason); reason != "" {
				message = fmt.Sprintf("%s: %s", message, reason)
			}
			return outcome{
				kind:       outcomeForbidden,
				status:     status,
				message:    message,
				aiDisabled: &details,
			}
		}
		if permission, ok := permissionName(fields); ok {
			return outcome{
				kind:    outcomeForbidden,
				status:  status,
				message: fmt.Sprintf("You don't have permission to perform this action (%s)", permission),
			}
		}
	}
	return outcome{
		kind:    outcomeForbidden,
		status:  status,
		message: extractMessage(fields, accessDeniedMessage, authChain...),
	}
}

func classifyRateLimited(status int, header http.Header, body []byte) outcome {
	fields, ok := parseErrorBody(body)
	if ok {
		if discriminator, _ := fields.stringField("error"); discriminator == discriminatorQuotaExceeded {
			var details QuotaErrorDetails
			fields.detailsField(&details)
			return outcome{
				kind:   outcomeRateLimited,
				status: status,
				message: fmt.Sprintf("AI quota exceeded: %d of %d %s used on the %s tier",
					details.CurrentUsage, details.MaxLimit, details.QuotaType, details.TierName),
				quota: &details,
			}
		}
	}

	// Retry-After header wins over the body field, which wins over the default.
	retryAfter := defaultRetryAfter
	if value, err := strconv.Atoi(strings.TrimSpace(header.Get("Retry-After"))); err == nil && value >= 0 {
		retryAfter = value
	} else if value, ok := fields.numberField("retryAfter"); ok && value >= 0 {
		retryAfter = value
	}

	return outcome{
		kind:       outcomeRateLimited,
		status:     status,
		message:    fmt.Sprintf("Too many requests. Please retry in %d seconds.", retryAfter),
		retryAfter: retryAfter,
	}
}
