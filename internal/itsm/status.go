package itsm

// TransportResult is the remote call's self-reported completion status,
// independent of the business ticket status.
type TransportResult string

const (
	TransportOK      TransportResult = "OK"
	TransportWarning TransportResult = "WARNING"
	TransportError   TransportResult = "ERROR"

	// TransportAbsent marks a response that carried no status at all.
	TransportAbsent TransportResult = ""
)

// ParseTransportResult maps the wire status string onto the enumeration.
// Anything outside the known vocabulary maps to TransportAbsent, which the
// reconciler treats as fatal.
func ParseTransportResult(s string) TransportResult {
	switch TransportResult(s) {
	case TransportOK, TransportWarning, TransportError:
		return TransportResult(s)
	default:
		return TransportAbsent
	}
}

// TicketStatus is the remote system's business lifecycle state for a ticket.
type TicketStatus int

const (
	// StatusAbsent means the response carried no business status, which is
	// expected immediately after ticket creation.
	StatusAbsent TicketStatus = iota
	StatusNew
	StatusAssigned
	StatusInProgress
	StatusPending
	StatusResolved
	StatusClosed
	StatusCancelled

	// StatusUnrecognized marks a wire code outside the known vocabulary.
	StatusUnrecognized
)

// statusCodes maps the remote wire codes onto statuses.
var statusCodes = map[string]TicketStatus{
	"0": StatusNew,
	"1": StatusAssigned,
	"2": StatusInProgress,
	"3": StatusPending,
	"4": StatusResolved,
	"5": StatusClosed,
	"6": StatusCancelled,
}

// StatusFromCode maps a remote wire code to a TicketStatus. An empty code
// means the status was absent; an unknown code is reported as
// StatusUnrecognized rather than an error, so a vocabulary mismatch degrades
// to an UNKNOWN outcome instead of aborting the lifecycle.
func StatusFromCode(code string) TicketStatus {
	if code == "" {
		return StatusAbsent
	}
	if status, ok := statusCodes[code]; ok {
		return status
	}
	return StatusUnrecognized
}

// Code returns the remote wire code of the status, or an empty string for
// statuses that have none.
func (s TicketStatus) Code() string {
	for code, status := range statusCodes {
		if status == s {
			return code
		}
	}
	return ""
}

func (s TicketStatus) String() string {
	switch s {
	case StatusAbsent:
		return "ABSENT"
	case StatusNew:
		return "NEW"
	case StatusAssigned:
		return "ASSIGNED"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusPending:
		return "PENDING"
	case StatusResolved:
		return "RESOLVED"
	case StatusClosed:
		return "CLOSED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNRECOGNIZED"
	}
}

// Outcome is the canonical result surfaced to the provisioning engine. It is
// the only status vocabulary the rest of the engine needs to understand.
type Outcome int

const (
	// OutcomePending means the ticket exists and is being worked.
	OutcomePending Outcome = iota

	// OutcomeSuccess means the ticket reached a terminal resolved state.
	OutcomeSuccess

	// OutcomeFatal means the operation failed and will not complete without
	// operator intervention.
	OutcomeFatal

	// OutcomeUnknown means the remote system gave no interpretable business
	// status; callers are expected to ask again later.
	OutcomeUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "PENDING"
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeFatal:
		return "FATAL"
	case OutcomeUnknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// Reconcile collapses the transport-level result and the business ticket
// status into the canonical outcome. It is total over both inputs and is the
// single place where this mapping lives; both the create path and the status
// query path go through it.
//
// A transport-level ERROR always dominates: a business status accompanying a
// failed call is not trustworthy. A missing business status on a successful
// call is UNKNOWN, not fatal, because no status is expected right after
// creation. CANCELLED is fatal because the remote system defines it as
// "will never be worked".
func Reconcile(result TransportResult, status TicketStatus) Outcome {
	switch result {
	case TransportOK, TransportWarning:
		switch status {
		case StatusNew, StatusAssigned, StatusInProgress, StatusPending:
			return OutcomePending
		case StatusResolved, StatusClosed:
			return OutcomeSuccess
		case StatusCancelled:
			return OutcomeFatal
		default: // absent or unrecognized
			return OutcomeUnknown
		}
	default: // ERROR, absent or unparseable transport status
		return OutcomeFatal
	}
}
