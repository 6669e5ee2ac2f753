package ws

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itsm-bridge/internal/common/logger"
)

func soapOutput(status, message string, attrs map[string]string) string {
	var b strings.Builder
	b.WriteString(`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:int="http://integrator.domainname.eu/">`)
	b.WriteString(`<soapenv:Body><int:integrationOperationResponse><int:output>`)
	fmt.Fprintf(&b, `<int:status>%s</int:status><int:message>%s</int:message>`, status, message)
	b.WriteString(`<int:attributes>`)
	for name, value := range attrs {
		fmt.Fprintf(&b, `<int:attribute><int:name>%s</int:name><int:value>%s</int:value></int:attribute>`, name, value)
	}
	b.WriteString(`</int:attributes></int:output></int:integrationOperationResponse></soapenv:Body></soapenv:Envelope>`)
	return b.String()
}

func newTestClient(t *testing.T, endpointURL string, extra func(*ClientConfig)) *Client {
	t.Helper()

	config := ClientConfig{
		EndpointURL: endpointURL,
		Username:    "svc-user",
		Password:    "svc-secret",
		Timeout:     5 * time.Second,
	}
	if extra != nil {
		extra(&config)
	}

	client, err := NewClient(config, logger.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClient_Call(t *testing.T) {
	var captured *OperationInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "integrationOperation", r.Header.Get("SOAPAction"))
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")

		input, err := DecodeRequest(r.Body)
		require.NoError(t, err)
		captured = input

		fmt.Fprint(w, soapOutput("OK", "created", map[string]string{
			"Incident_Number": "TT0000000000042",
		}))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	output, err := client.Call(context.Background(), &OperationInput{
		MessageType: MessageTypeCreate,
		ProfileName: "TTIntegration",
		Attributes:  []Attribute{{Name: "Priority", Value: "3"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "OK", output.Status)
	assert.Equal(t, "created", output.Message)
	assert.Equal(t, "TT0000000000042", output.Attribute("Incident_Number"))

	require.NotNil(t, captured)
	assert.Equal(t, MessageTypeCreate, captured.MessageType)
	assert.Equal(t, "TTIntegration", captured.ProfileName)
	assert.NotEmpty(t, captured.MessageID, "a correlation id must be assigned")
	assert.Equal(t, []Attribute{{Name: "Priority", Value: "3"}}, captured.Attributes)
}

func TestClient_Call_KeepsExplicitMessageID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input, err := DecodeRequest(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "msg-keep", input.MessageID)
		fmt.Fprint(w, soapOutput("OK", "", nil))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	_, err := client.Call(context.Background(), &OperationInput{
		MessageType: MessageTypeGetEntry,
		MessageID:   "msg-keep",
	})
	require.NoError(t, err)
}

func TestClient_Call_SendsUsernameToken(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(raw)
		fmt.Fprint(w, soapOutput("OK", "", nil))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	_, err := client.Call(context.Background(), &OperationInput{MessageType: MessageTypeGetEntry})
	require.NoError(t, err)

	assert.Contains(t, body, "<wsse:Username>svc-user</wsse:Username>")
	assert.Contains(t, body, ">svc-secret</wsse:Password>")
}

func TestClient_Call_HTTPFaults(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind FaultKind
	}{
		{"unauthorized", http.StatusUnauthorized, FaultUnauthorized},
		{"request timeout", http.StatusRequestTimeout, FaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, nil)
			_, err := client.Call(context.Background(), &OperationInput{MessageType: MessageTypeGetEntry})
			require.Error(t, err)

			fault, ok := AsFault(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, fault.Kind)
			assert.True(t, fault.Retryable())
		})
	}
}

func TestClient_Call_SOAPFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <soapenv:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>profile not found</faultstring>
    </soapenv:Fault>
  </soapenv:Body>
</soapenv:Envelope>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	_, err := client.Call(context.Background(), &OperationInput{MessageType: MessageTypeCreate})
	require.Error(t, err)

	fault, ok := AsFault(err)
	require.True(t, ok)
	assert.Equal(t, FaultProtocol, fault.Kind)
	assert.Equal(t, "soap:Server", fault.Code)
	assert.Equal(t, "profile not found", fault.Message)
	assert.Equal(t, http.StatusInternalServerError, fault.HTTPStatus)
	assert.False(t, fault.Retryable())
}

func TestClient_Call_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, soapOutput("OK", "", nil))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, func(c *ClientConfig) {
		c.Timeout = 50 * time.Millisecond
	})

	_, err := client.Call(context.Background(), &OperationInput{MessageType: MessageTypeGetEntry})
	require.Error(t, err)

	fault, ok := AsFault(err)
	require.True(t, ok)
	assert.Equal(t, FaultTimeout, fault.Kind)
	assert.True(t, fault.Retryable())
}

func TestClient_Call_SerializesRequests(t *testing.T) {
	var inFlight, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		fmt.Fprint(w, soapOutput("OK", "", nil))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Call(context.Background(), &OperationInput{MessageType: MessageTypeGetEntry})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&peak), "at most one request may be in flight")
}

func TestClient_MessageLog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, soapOutput("OK", "logged", nil))
	}))
	defer server.Close()

	logDir := t.TempDir()
	client := newTestClient(t, server.URL, func(c *ClientConfig) {
		c.MessageLogDir = logDir
	})

	_, err := client.Call(context.Background(), &OperationInput{
		MessageType: MessageTypeGetEntry,
		MessageID:   "msg-logged",
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(logDir, "itsm-io.log.xml"))
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "request msg-logged")
	assert.Contains(t, content, "response msg-logged")
	assert.Contains(t, content, "<int:messageType>GetEntry</int:messageType>")
	assert.Contains(t, content, "<int:message>logged</int:message>")
}

func TestProxyURL(t *testing.T) {
	t.Run("http proxy with port", func(t *testing.T) {
		u, err := proxyURL(ClientConfig{ProxyURL: "proxy.local", ProxyPort: 3128, ProxyType: "HTTP"})
		require.NoError(t, err)
		assert.Equal(t, "http://proxy.local:3128", u.String())
	})

	t.Run("socks proxy", func(t *testing.T) {
		u, err := proxyURL(ClientConfig{ProxyURL: "proxy.local", ProxyPort: 1080, ProxyType: "SOCKS"})
		require.NoError(t, err)
		assert.Equal(t, "socks5://proxy.local:1080", u.String())
	})

	t.Run("port omitted", func(t *testing.T) {
		u, err := proxyURL(ClientConfig{ProxyURL: "proxy.local"})
		require.NoError(t, err)
		assert.Equal(t, "http://proxy.local", u.String())
	})
}
