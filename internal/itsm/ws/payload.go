// Package ws implements the SOAP-over-HTTP transport to the remote
// integration endpoint. It only knows how to send one blocking request and
// classify failures; all status interpretation happens in the caller.
package ws

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Message types accepted by the integration endpoint.
const (
	MessageTypeCreate   = "Create"
	MessageTypeGetEntry = "GetEntry"
)

const (
	soapEnvNS      = "http://schemas.xmlsoap.org/soap/envelope/"
	integratorNS   = "http://integrator.domainname.eu/"
	wsseNS         = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	passwordTextNS = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordText"
)

// Attribute is one name/value pair of a request or response attribute list.
type Attribute struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

// OperationInput is the request payload of one integration operation.
type OperationInput struct {
	MessageType string
	ProfileName string
	MessageID   string // correlation id, assigned by the client when empty
	Attributes  []Attribute
}

// OperationOutput is the response payload of one integration operation.
type OperationOutput struct {
	Status     string
	Message    string
	Attributes []Attribute
}

// Attribute returns the value of the named response attribute, or an empty
// string when the response does not carry it.
func (o *OperationOutput) Attribute(name string) string {
	for _, attr := range o.Attributes {
		if attr.Name == name {
			return attr.Value
		}
	}
	return ""
}

// --- request marshalling ---

type requestEnvelope struct {
	XMLName xml.Name      `xml:"soapenv:Envelope"`
	NSEnv   string        `xml:"xmlns:soapenv,attr"`
	NSInt   string        `xml:"xmlns:int,attr"`
	Header  requestHeader `xml:"soapenv:Header"`
	Body    requestBody   `xml:"soapenv:Body"`
}

type requestHeader struct {
	Security securityHeader `xml:"wsse:Security"`
}

type securityHeader struct {
	NSWsse         string        `xml:"xmlns:wsse,attr"`
	MustUnderstand string        `xml:"soapenv:mustUnderstand,attr"`
	Token          usernameToken `xml:"wsse:UsernameToken"`
}

type usernameToken struct {
	Username string       `xml:"wsse:Username"`
	Password passwordText `xml:"wsse:Password"`
}

type passwordText struct {
	Type  string `xml:"Type,attr"`
	Value string `xml:",chardata"`
}

type requestBody struct {
	Operation integrationOperation `xml:"int:integrationOperation"`
}

type integrationOperation struct {
	Input requestInput `xml:"int:input"`
}

type requestInput struct {
	MessageType string      `xml:"int:messageType"`
	ProfileName string      `xml:"int:profileName"`
	MessageID   string      `xml:"int:messageId,omitempty"`
	Attributes  []inputAttr `xml:"int:attributes>int:attribute"`
}

type inputAttr struct {
	Name  string `xml:"int:name"`
	Value string `xml:"int:value"`
}

// encodeRequest builds the full SOAP envelope for the operation, including
// the WS-Security UsernameToken header.
func encodeRequest(input *OperationInput, username, password string) ([]byte, error) {
	attrs := make([]inputAttr, 0, len(input.Attributes))
	for _, a := range input.Attributes {
		attrs = append(attrs, inputAttr{Name: a.Name, Value: a.Value})
	}

	env := requestEnvelope{
		NSEnv: soapEnvNS,
		NSInt: integratorNS,
		Header: requestHeader{
			Security: securityHeader{
				NSWsse:         wsseNS,
				MustUnderstand: "1",
				Token: usernameToken{
					Username: username,
					Password: passwordText{Type: passwordTextNS, Value: password},
				},
			},
		},
		Body: requestBody{
			Operation: integrationOperation{
				Input: requestInput{
					MessageType: input.MessageType,
					ProfileName: input.ProfileName,
					MessageID:   input.MessageID,
					Attributes:  attrs,
				},
			},
		},
	}

	body, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling request envelope: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// --- response unmarshalling ---

type responseEnvelope struct {
	Body struct {
		Fault    *soapFault `xml:"Fault"`
		Response *struct {
			Output responseOutput `xml:"output"`
		} `xml:"integrationOperationResponse"`
	} `xml:"Body"`
}

type responseOutput struct {
	Status     string `xml:"status"`
	Message    string `xml:"message"`
	Attributes struct {
		Attribute []Attribute `xml:"attribute"`
	} `xml:"attributes"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// decodeResponse parses a response envelope. A SOAP fault in the body is
// returned as a protocol Fault.
func decodeResponse(body []byte) (*OperationOutput, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshalling response envelope: %w", err)
	}

	if env.Body.Fault != nil {
		return nil, &Fault{
			Kind:    FaultProtocol,
			Code:    env.Body.Fault.Code,
			Message: env.Body.Fault.String,
		}
	}

	if env.Body.Response == nil {
		return nil, fmt.Errorf("response envelope carries no operation output")
	}

	out := env.Body.Response.Output
	return &OperationOutput{
		Status:     out.Status,
		Message:    out.Message,
		Attributes: out.Attributes.Attribute,
	}, nil
}

// DecodeRequest parses a request envelope back into its payload. Used for
// replaying logged messages and by test doubles of the endpoint.
func DecodeRequest(r io.Reader) (*OperationInput, error) {
	var env struct {
		Body struct {
			Operation struct {
				Input struct {
					MessageType string `xml:"messageType"`
					ProfileName string `xml:"profileName"`
					MessageID   string `xml:"messageId"`
					Attributes  struct {
						Attribute []Attribute `xml:"attribute"`
					} `xml:"attributes"`
				} `xml:"input"`
			} `xml:"integrationOperation"`
		} `xml:"Body"`
	}

	if err := xml.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("unmarshalling request envelope: %w", err)
	}

	in := env.Body.Operation.Input
	return &OperationInput{
		MessageType: in.MessageType,
		ProfileName: in.ProfileName,
		MessageID:   in.MessageID,
		Attributes:  in.Attributes.Attribute,
	}, nil
}
