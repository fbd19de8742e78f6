package tui

import "github.com/MKhiriev/whispee/models"

// Navigation is a screen change requested by a session state.
type Navigation int

const (
	// NavigateNone keeps the current screen.
	NavigateNone Navigation = iota
	// NavigateHome opens the home screen of an authenticated user.
	NavigateHome
	// NavigateStart leaves the home screen for the start screen.
	NavigateStart
)

// ViewState is what the screens render for one session state.
type ViewState struct {
	Phase models.Phase
	Kind  models.OperationKind

	// Loading is set while an identity operation waits for the server.
	Loading bool
	// FormEnabled tells whether the forms accept a new submission.
	FormEnabled bool
	Navigate    Navigation

	// Error is the failure to show until the user acknowledges it.
	Error string

	User      *models.Identity
	SessionID string
}

const defaultFailure = "request failed"

// ViewStateFor maps a session state to its view state.
func ViewStateFor(state models.SessionState) ViewState {
	vs := ViewState{Phase: state.Phase, Kind: state.Kind}

	switch state.Phase {
	case models.PhaseSubmitting:
		vs.Loading = true
	case models.PhaseAuthenticated:
		vs.Navigate = NavigateHome
		vs.User = state.User
		vs.SessionID = state.SessionID
	case models.PhaseFailed:
		vs.FormEnabled = true
		vs.Error = state.Reason
		if vs.Error == "" {
			vs.Error = defaultFailure
		}
	default:
		vs.FormEnabled = true
		vs.Navigate = NavigateStart
	}

	return vs
}

// LoadingLabel is the loader text for an operation kind.
func LoadingLabel(kind models.OperationKind) string {
	switch kind {
	case models.OperationLogin:
		return "Signing in..."
	case models.OperationRegister:
		return "Creating account..."
	case models.OperationResume:
		return "Restoring session..."
	case models.OperationLookup:
		return "Looking up..."
	case models.OperationLoadChats, models.OperationOpenChat:
		return "Loading chats..."
	case models.OperationSendMessage:
		return "Sending..."
	}
	return "Working..."
}
