// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error. Codes are
// dot-separated; the final segment is the failure reason used by the
// Is* classifiers below.
type Code string

const (
	CodeStoreStandardNotFound   Code = "store.standard.get.not_found"
	CodeStoreComponentNotFound  Code = "store.component.get.not_found"
	CodeStoreStandardAmbiguous  Code = "store.standard.resolve.ambiguous"
	CodeStoreBackendUnsupported Code = "store.backend.unsupported"
	CodeStoreInvalidInput       Code = "store.invalid_input"
	CodeStoreDatabaseFailure    Code = "store.database.failure"

	CodeSnapshotReadFailure     Code = "snapshot.read.failure"
	CodeSnapshotHeaderInvalid   Code = "snapshot.header.invalid_format"
	CodeSnapshotManifestInvalid Code = "snapshot.manifest.invalid_format"
	CodeSnapshotRowIntegrity    Code = "snapshot.row.integrity"
	CodeGradeLevelIntegrity     Code = "snapshot.grade_level.integrity"
	CodeGraphEdgeIntegrity      Code = "graph.edge.integrity"

	CodeEmbeddingFileMissing    Code = "embedding.load.file_missing"
	CodeEmbeddingDecodeFailure  Code = "embedding.load.decode_failure"
	CodeEmbeddingSchemaMismatch Code = "embedding.load.schema_mismatch"
	CodeEmbeddingPersistFailure Code = "embedding.persist.failure"
	CodeEmbeddingRunFailure     Code = "embedding.run.failure"
	CodeSearchDimensionMismatch Code = "search.query.dimension_mismatch"
	CodeSearchRequestInvalid    Code = "search.request.invalid"
	CodeSearchNoRecords         Code = "search.index.no_records"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigParseInvalidFormat   Code = "config.parse.invalid_format"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeProviderRequestInvalid  Code = "provider.request.invalid"
	CodeProviderResponseInvalid Code = "provider.response.invalid"
	CodeProviderUpstreamFailure Code = "provider.upstream.failure"
	CodeProviderCallTimeout     Code = "provider.call.timeout"
	CodeProviderNotFound        Code = "provider.registry.not_found"
	CodeProviderNotConfigured   Code = "provider.key.unconfigured"
	CodeProviderKeyInvalid      Code = "provider.key.invalid"
	CodeProviderKeyCheckFailed  Code = "provider.key.check.failure"

	CodePracticeContextFailure  Code = "practice.context.failure"
	CodePracticeGenerateFailure Code = "practice.generate.failure"

	CodeServerRequestInvalid  Code = "server.request.invalid"
	CodeServerInternalFailure Code = "server.internal.failure"
	CodeServerEntityNotFound  Code = "server.entity.not_found"
	CodeServerStartFailure    Code = "server.start.failure"
	CodeServerShutdownFailure Code = "server.shutdown.failure"

	CodeCLIServerNotRunning Code = "cli.server.not_running"
	CodeCLIRequestFailure   Code = "cli.request.failure"
	CodeCLIResponseInvalid  Code = "cli.response.invalid"
	CodeCLIInputInvalid     Code = "cli.input.invalid"
	CodeCLISetupFailure     Code = "cli.setup.failure"

	CodeSecretStoreFailure   Code = "secret.store.failure"
	CodeSecretNotFound       Code = "secret.get.not_found"
	CodeSecretInvalidInput   Code = "secret.invalid_input"
	CodeSecretResolveFailure Code = "secret.resolve.failure"
	CodeSecretListFailure    Code = "secret.list.failure"
	CodeSecretDeleteFailure  Code = "secret.delete.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// FieldValue creates a structured error field.
func FieldValue(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Field is kept as the primary helper for terse callsites.
func Field(key string, value any) Attr {
	return FieldValue(key, value)
}

func FieldStandardID(value string) Attr {
	return Field("standard_id", value)
}

func FieldComponentID(value string) Attr {
	return Field("component_id", value)
}

func FieldStatementCode(value string) Attr {
	return Field("statement_code", value)
}

func FieldJurisdiction(value string) Attr {
	return Field("jurisdiction", value)
}

func FieldProvider(value string) Attr {
	return Field("provider", value)
}

func FieldPath(value string) Attr {
	return Field("path", value)
}

func FieldRunID(value string) Attr {
	return Field("run_id", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeServerInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format" || r == "ambiguous"
}

// IsDataIntegrity reports whether err records a per-row data anomaly
// (dangling edge endpoint, malformed grade-level encoding).
func IsDataIntegrity(err error) bool {
	return reason(CodeOf(err)) == "integrity"
}

// IsSerialization reports whether err came from loading or decoding the
// persisted embedding set (missing file, schema mismatch, bad encoding).
func IsSerialization(err error) bool {
	r := reason(CodeOf(err))
	return r == "file_missing" || r == "decode_failure" || r == "schema_mismatch"
}

func IsDimensionMismatch(err error) bool {
	return reason(CodeOf(err)) == "dimension_mismatch"
}

func IsTimeout(err error) bool {
	return reason(CodeOf(err)) == "timeout"
}

func IsUpstreamFailure(err error) bool {
	code := CodeOf(err)
	return strings.Contains(string(code), "upstream") && reason(code) == "failure"
}

// IsExternalService reports whether err came from an embedding or
// generation call that failed or timed out.
func IsExternalService(err error) bool {
	return IsUpstreamFailure(err) || IsTimeout(err) || HasCode(err, CodeProviderResponseInvalid)
}

func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsDimensionMismatch(err):
		return http.StatusUnprocessableEntity
	case IsInvalidInput(err):
		return http.StatusBadRequest
	case IsTimeout(err):
		return http.StatusGatewayTimeout
	case IsExternalService(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Join(errs ...error) error {
	return oops.Code(CodeServerInternalFailure).Wrap(stderrors.Join(errs...))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
