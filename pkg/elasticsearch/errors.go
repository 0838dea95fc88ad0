package elasticsearch

import "errors"

var (
	// ErrConnectionFailed indicates a transport-level failure: unreachable
	// host, I/O error, timeout, or an unclassified non-2xx response.
	// Always wraps the underlying cause. Use errors.Is() to check.
	ErrConnectionFailed = errors.New("elasticsearch connection failed")

	// ErrInvalidResponse indicates a successfully received payload that could
	// not be decoded into the expected shape.
	ErrInvalidResponse = errors.New("elasticsearch returned an invalid response")

	// ErrQueryFailed indicates a cluster-reported, user-actionable query
	// problem. The error message carries the structured reason extracted from
	// the cluster's error body when one is present.
	ErrQueryFailed = errors.New("elasticsearch query failed")

	// ErrSSLInitialization indicates a failure while building the TLS
	// configuration. Fatal to client construction.
	ErrSSLInitialization = errors.New("failed to initialize TLS configuration")

	// ErrCertificateInvalid indicates a key-store certificate outside its
	// validity window. Fatal to client construction.
	ErrCertificateInvalid = errors.New("keystore certificate failed validity check")

	// ErrNoDataNodes indicates that topology discovery found no data-holding
	// nodes, leaving nothing to route requests to.
	ErrNoDataNodes = errors.New("no data nodes discovered in the cluster")

	// ErrHealthcheckFailed indicates the cluster is unreachable or unhealthy.
	// Returned by both New() during initialization and Healthcheck() during
	// monitoring.
	ErrHealthcheckFailed = errors.New("elasticsearch healthcheck failed")
)
