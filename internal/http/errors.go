package http

import (
	"web-analytics/internal/shared/svcerrors"
)

// Handler errors
const (
	codeMalformedBody          = "HTP_1000"
	codeUnsupportedContentType = "HTP_1001"
)

func errMalformedBody(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeMalformedBody, "request body is not valid JSON", cause)
}

func errUnsupportedContentType(contentType string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeUnsupportedContentType, "content type must be application/json, got: "+contentType, nil)
}
