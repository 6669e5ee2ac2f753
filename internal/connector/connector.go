// Package connector bridges manual provisioning operations to the remote
// incident-management system: it turns create/modify/delete requests into
// tickets and reconciles ticket lifecycle status back into the canonical
// outcome the provisioning engine understands.
package connector

import (
	"context"
	"sync"
	"time"

	"itsm-bridge/internal/common/config"
	"itsm-bridge/internal/common/errors"
	"itsm-bridge/internal/common/logger"
	"itsm-bridge/internal/common/metrics"
	"itsm-bridge/internal/common/observability"
	"itsm-bridge/internal/itsm"
	"itsm-bridge/internal/itsm/ws"
	"itsm-bridge/internal/template"
)

// defaultProbeIncident is queried by the connectivity test when no test
// incident number is configured.
const defaultProbeIncident = "TT0000000000001"

// Connector is the ticket lifecycle coordinator. One instance serves the
// whole process; all remote calls are serialized through a single logical
// channel, and reconnects are serialized with in-flight requests.
type Connector struct {
	mu       sync.Mutex
	config   *config.Config
	client   *ws.Client
	renderer *template.Renderer
	log      logger.Logger
	obs      *observability.Observability
}

// Options configures a new Connector.
type Options struct {
	Config        *config.Config
	Logger        logger.Logger
	Observability *observability.Observability
}

// New creates a disconnected Connector. Connect must be called before any
// operation.
func New(opts Options) (*Connector, error) {
	if opts.Config == nil {
		return nil, errors.NewConfigurationError("configuration is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	return &Connector{
		config: opts.Config,
		log:    log,
		obs:    opts.Observability,
	}, nil
}

// Connect validates the configuration eagerly and (re)builds the transport
// channel and the template renderer. A reconnect waits for any in-flight
// request to finish.
func (c *Connector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.config.Validate(); err != nil {
		return errors.NewConfigurationError(err.Error()).WithCause(err)
	}

	renderer, err := template.NewRenderer(c.config.Templates.Description, c.config.Templates.Detail)
	if err != nil {
		return errors.NewConfigurationError("invalid template: " + err.Error()).WithCause(err)
	}

	if c.client != nil {
		c.client.Close()
	}

	c.log.Debug("Creating integration endpoint client", map[string]interface{}{
		"endpoint": c.config.Endpoint.WsURL,
	})

	client, err := ws.NewClient(clientConfig(c.config), c.log)
	if err != nil {
		return errors.NewConfigurationError(err.Error()).WithCause(err)
	}

	c.client = client
	c.renderer = renderer
	return nil
}

// Close releases the transport channel. The connector can be reconnected
// afterwards.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

func clientConfig(cfg *config.Config) ws.ClientConfig {
	return ws.ClientConfig{
		EndpointURL:      cfg.Endpoint.WsURL,
		Username:         cfg.Endpoint.Username,
		Password:         cfg.Endpoint.Password,
		Timeout:          cfg.Endpoint.GetTimeout(),
		ProxyURL:         cfg.Endpoint.ProxyURL,
		ProxyPort:        cfg.Endpoint.ProxyPort,
		ProxyType:        cfg.Endpoint.ProxyType,
		InsecureTrustAll: cfg.Endpoint.SSLTrustManager == config.NonValidatingTrustManager,
		DisableCNCheck:   cfg.Endpoint.SSLDisableCnCheck,
		MessageLogDir:    cfg.Endpoint.MessageLogBasedir,
	}
}

// call sends one operation through the shared channel. Holding the connector
// mutex for the whole exchange keeps the single-in-flight invariant and
// keeps reconnects from racing a send.
func (c *Connector) call(ctx context.Context, input *ws.OperationInput) (*ws.OperationOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, errors.NewConfigurationError("connector is not connected")
	}

	start := time.Now()
	metrics.RemoteCallsInFlight.Inc()
	defer metrics.RemoteCallsInFlight.Dec()

	output, err := c.client.Call(ctx, input)

	elapsed := time.Since(start)
	metrics.RemoteCallDuration.WithLabelValues(input.MessageType).Observe(elapsed.Seconds())
	if c.obs != nil {
		c.obs.RecordCallDuration(ctx, elapsed, input.MessageType)
	}

	if err != nil {
		if c.obs != nil {
			c.obs.RecordCall(ctx, input.MessageType, "FAULT")
		}
		return nil, mapFault(err)
	}

	if c.obs != nil {
		c.obs.RecordCall(ctx, input.MessageType, output.Status)
	}
	return output, nil
}

// mapFault translates the transport fault taxonomy into the bridge error
// vocabulary.
func mapFault(err error) error {
	fault, ok := ws.AsFault(err)
	if !ok {
		return errors.NewCommunicationError(err.Error()).WithCause(err)
	}

	switch fault.Kind {
	case ws.FaultUnauthorized:
		return errors.NewUnauthorizedError(fault.Message).WithCause(fault)
	case ws.FaultTimeout:
		return errors.NewTimeoutError(fault.Message).WithCause(fault)
	case ws.FaultProtocol:
		return errors.NewProtocolFaultError(fault.Code, fault.Message).WithCause(fault)
	default:
		return errors.NewCommunicationError(fault.Message).WithCause(fault)
	}
}

// QueryStatus looks up the ticket's business lifecycle state and reconciles
// it into the canonical outcome. Read-only and idempotent; an unrecognized
// status degrades to OutcomeUnknown rather than an error so the engine can
// poll again.
func (c *Connector) QueryStatus(ctx context.Context, ticketID string) (itsm.Outcome, error) {
	input := &ws.OperationInput{
		MessageType: ws.MessageTypeGetEntry,
		ProfileName: c.config.Ticket.ProfileName,
		Attributes: []ws.Attribute{
			{Name: itsm.AttrIncidentNumber.Name, Value: ticketID},
		},
	}

	output, err := c.call(ctx, input)
	if err != nil {
		return itsm.Reconcile(itsm.TransportAbsent, itsm.StatusAbsent), err
	}

	result := itsm.ParseTransportResult(output.Status)
	if result == itsm.TransportError || result == itsm.TransportAbsent {
		c.recordResultOnError(result, output, "query")
		return itsm.Reconcile(result, itsm.StatusAbsent), errors.NewRemoteOperationError(output.Message)
	}

	code := output.Attribute(itsm.AttrIncidentStatus.Name)
	status := itsm.StatusFromCode(code)
	if status == itsm.StatusUnrecognized {
		c.log.Error("Ticket status from response is not specified, reconciling to UNKNOWN", map[string]interface{}{
			"ticketId":   ticketID,
			"statusCode": code,
			"errorCode":  string(errors.ErrCodeTicketStatusUnrecognized),
		})
	}

	outcome := itsm.Reconcile(result, status)
	metrics.StatusQueries.WithLabelValues(outcome.String()).Inc()
	c.recordResultOnSuccess(result, status, "query")
	return outcome, nil
}

// Test issues a read-only status query against the configured or default
// probe incident and asserts the call completed with an interpretable
// status. With a configured test incident the remote status must be OK.
func (c *Connector) Test(ctx context.Context) error {
	if err := c.config.Validate(); err != nil {
		return errors.NewConfigurationError(err.Error()).WithCause(err)
	}

	probe := defaultProbeIncident
	testConnectionOnly := c.config.Ticket.TestIncidentNumber == ""
	if !testConnectionOnly {
		probe = c.config.Ticket.TestIncidentNumber
	}

	c.log.Info("Testing integration endpoint connection", map[string]interface{}{
		"probeIncident": probe,
	})

	input := &ws.OperationInput{
		MessageType: ws.MessageTypeGetEntry,
		ProfileName: c.config.Ticket.ProfileName,
		Attributes: []ws.Attribute{
			{Name: itsm.AttrIncidentNumber.Name, Value: probe},
		},
	}

	output, err := c.call(ctx, input)
	if err != nil {
		return err
	}

	result := itsm.ParseTransportResult(output.Status)
	switch {
	case testConnectionOnly && result != itsm.TransportAbsent:
		// any interpretable status proves the channel works
	case !testConnectionOnly && result == itsm.TransportOK:
		// the configured probe incident must be readable
	default:
		return errors.NewCommunicationError("calling endpoint failed, response message is: " + output.Message)
	}

	c.log.Info("Integration endpoint test ok", map[string]interface{}{
		"status":  output.Status,
		"message": output.Message,
	})
	return nil
}

// recordResultOnSuccess appends one entry to the operation's result trail.
func (c *Connector) recordResultOnSuccess(result itsm.TransportResult, status itsm.TicketStatus, operation string) {
	c.log.Info("Integration operation result", map[string]interface{}{
		"operation":    operation,
		"status":       string(result),
		"ticketStatus": status.String(),
	})
}

// recordResultOnError appends one error entry to the result trail, keeping
// the remote message text verbatim.
func (c *Connector) recordResultOnError(result itsm.TransportResult, output *ws.OperationOutput, operation string) {
	message := "Error calling service."
	if result == itsm.TransportAbsent {
		message = "Operation response or response status is absent."
	}

	c.log.Error("Integration operation result - error", map[string]interface{}{
		"operation":     operation,
		"status":        string(result),
		"message":       message,
		"remoteMessage": output.Message,
	})
}
