package qbench

import "qbench/services"

// TransportError represents a network failure or a non-2xx answer from the service
type TransportError = services.TransportError

// DecodeError represents a response that is not a well-formed result list
type DecodeError = services.DecodeError
