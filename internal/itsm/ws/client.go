package ws

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"itsm-bridge/internal/common/logger"
)

// messageLogFilename is the single append-only log for both requests and
// responses, matching the integration's message log convention.
const messageLogFilename = "itsm-io.log.xml"

// ClientConfig holds the transport settings for one endpoint connection.
type ClientConfig struct {
	EndpointURL string
	Username    string
	Password    string
	Timeout     time.Duration

	ProxyURL  string
	ProxyPort int
	ProxyType string // HTTP or SOCKS

	// InsecureTrustAll replaces certificate chain validation with a
	// trust-everything policy. Test environments only.
	InsecureTrustAll bool
	DisableCNCheck   bool

	// MessageLogDir enables request/response message logging when set.
	MessageLogDir string
}

// Client is a blocking SOAP client for the integration endpoint. Access is
// serialized so at most one request is in flight per client, a poor man's
// connection pool of size one.
type Client struct {
	mu         sync.Mutex
	config     ClientConfig
	httpClient *http.Client
	log        logger.Logger
}

// NewClient builds a transport client from the configuration. No connection
// is opened until the first call.
func NewClient(config ClientConfig, log logger.Logger) (*Client, error) {
	transport := &http.Transport{}

	if config.ProxyURL != "" {
		proxyURL, err := proxyURL(config)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if config.InsecureTrustAll || config.DisableCNCheck {
		// Go's TLS stack has no separate CN-only switch; both overrides map
		// to skipping verification.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		log: log,
	}, nil
}

func proxyURL(config ClientConfig) (*url.URL, error) {
	scheme := "http"
	if strings.EqualFold(config.ProxyType, "SOCKS") {
		scheme = "socks5"
	}

	host := config.ProxyURL
	if config.ProxyPort > 0 {
		host = fmt.Sprintf("%s:%d", config.ProxyURL, config.ProxyPort)
	}

	u, err := url.Parse(scheme + "://" + host)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy address %q: %w", host, err)
	}
	return u, nil
}

// Call sends one integration operation and blocks until the response or a
// transport failure. Failures are returned as *Fault. Callers needing a
// deadline rely on the client timeout or the context.
func (c *Client) Call(ctx context.Context, input *OperationInput) (*OperationOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if input.MessageID == "" {
		input.MessageID = uuid.NewString()
	}

	payload, err := encodeRequest(input, c.config.Username, c.config.Password)
	if err != nil {
		return nil, &Fault{Kind: FaultUnclassified, Message: err.Error(), cause: err}
	}
	c.logMessage("request", input.MessageID, payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.EndpointURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &Fault{Kind: FaultUnclassified, Message: err.Error(), cause: err}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "integrationOperation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fault := classifyError(err)
		c.log.Warn("Integration endpoint call failed", map[string]interface{}{
			"messageId":   input.MessageID,
			"messageType": input.MessageType,
			"faultKind":   fault.Kind.String(),
			"error":       err.Error(),
		})
		return nil, fault
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusRequestTimeout:
		return nil, classifyHTTPStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Fault{Kind: FaultUnclassified, Message: err.Error(), cause: err}
	}
	c.logMessage("response", input.MessageID, body)

	output, err := decodeResponse(body)
	if err != nil {
		if fault, ok := AsFault(err); ok {
			// SOAP faults usually arrive with HTTP 500; keep the status for
			// the record.
			fault.HTTPStatus = resp.StatusCode
			return nil, fault
		}
		if resp.StatusCode != http.StatusOK {
			return nil, classifyHTTPStatus(resp.StatusCode)
		}
		return nil, &Fault{Kind: FaultUnclassified, Message: err.Error(), cause: err}
	}

	c.log.Debug("Integration endpoint call completed", map[string]interface{}{
		"messageId":   input.MessageID,
		"messageType": input.MessageType,
		"status":      output.Status,
	})
	return output, nil
}

// Close releases idle connections. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpClient.CloseIdleConnections()
}

// logMessage appends the wire payload to the message log when configured.
// Logging failures are ignored as non fatal.
func (c *Client) logMessage(direction, messageID string, payload []byte) {
	if c.config.MessageLogDir == "" {
		return
	}

	path := filepath.Join(c.config.MessageLogDir, messageLogFilename)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		c.log.Warn("Couldn't open message log", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return
	}
	defer f.Close()

	header := fmt.Sprintf("<!-- %s %s %s -->\n", time.Now().Format(time.RFC3339), direction, messageID)
	if _, err := f.WriteString(header); err == nil {
		f.Write(payload)
		f.WriteString("\n")
	}
}
