package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-coach/api/internal/speech"
)

// Classify wraps err with speech.ErrInvalidRequest when the provider rejected the request
// payload itself. Invalid-key errors also come back as 400 but belong to the credential,
// so they stay retryable.
func Classify(err error) error {
	if err == nil || !invalidRequest(err) || keyProblem(err) {
		return err
	}
	return fmt.Errorf("%w: %w", speech.ErrInvalidRequest, err)
}

func invalidRequest(err error) bool {
	var ae *apierror.APIError
	if errors.As(err, &ae) {
		if ae.HTTPCode() == http.StatusBadRequest {
			return true
		}
		if st := ae.GRPCStatus(); st != nil && st.Code() == codes.InvalidArgument {
			return true
		}
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) && ge.Code == http.StatusBadRequest {
		return true
	}
	if st, ok := status.FromError(err); ok && st.Code() == codes.InvalidArgument {
		return true
	}
	return false
}

func keyProblem(err error) bool {
	var ae *apierror.APIError
	if errors.As(err, &ae) && ae.Reason() == "API_KEY_INVALID" {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "API_KEY_INVALID") || strings.Contains(s, "API key not valid")
}
