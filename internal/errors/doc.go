// Package errors provides the structured error type used across the dialogue
// service.
//
// Every error carries a Code so callers can branch on the failure category
// without string matching:
//
//	if errors.IsUnavailable(err) {
//	    // skip this backend and try the next one
//	}
//
// Wrapping keeps the original code unless a new one is supplied:
//
//	if err := turns.Append(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save player turn")
//	}
//
// Context cancellation is translated with FromContext so that a superseded
// dialogue turn reports CodeCanceled and an expired backend call reports
// CodeDeadlineExceeded.
//
// Configuration structs validate with a ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	if c.Router == nil {
//	    vb.RequiredField("Router")
//	}
//	return vb.Build()
//
// ToGRPCError converts any error into a gRPC status for the serve command.
package errors
