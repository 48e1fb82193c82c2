/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package snmp

import (
	"github.com/gosnmp/gosnmp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Placeholder stands in for data the agent could not provide. The zero value
// means the accompanying Value is usable.
type Placeholder string

const (
	NoResponse    Placeholder = "No SNMP response."
	DecodeFailure Placeholder = "Decoding of the value was unsuccessful."
	Unavailable   Placeholder = "N/A"
)

func (p Placeholder) String() string {
	return string(p)
}

// Value is the decoded result of a single variable binding.
type Value struct {
	OID         string
	Text        string
	Raw         []byte
	Placeholder Placeholder
}

// OK reports whether the value carries agent data rather than a placeholder.
func (v Value) OK() bool {
	return v.Placeholder == ""
}

// String returns the decoded text, or the placeholder text when there is none.
func (v Value) String() string {
	if v.OK() {
		return v.Text
	}

	return v.Placeholder.String()
}

func noResponse(oid string) Value {
	return Value{OID: oid, Placeholder: NoResponse}
}

// decodePDU converts a variable binding to text. It never panics on
// unexpected value types and never returns an error; failures become placeholders.
func decodePDU(pdu gosnmp.SnmpPDU) Value {
	if pdu.Value == nil {
		return noResponse(pdu.Name)
	}

	//nolint:exhaustive // Default case handles numeric types
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return noResponse(pdu.Name)
	case gosnmp.OctetString, gosnmp.ObjectDescription, gosnmp.Opaque, gosnmp.BitString:
		raw, ok := pdu.Value.([]byte)
		if !ok {
			return Value{OID: pdu.Name, Placeholder: DecodeFailure}
		}

		if len(raw) == 0 {
			return noResponse(pdu.Name)
		}

		text, ok := decodeText(raw)
		if !ok {
			return Value{OID: pdu.Name, Raw: raw, Placeholder: DecodeFailure}
		}

		return Value{OID: pdu.Name, Text: text, Raw: raw}
	case gosnmp.IPAddress, gosnmp.ObjectIdentifier:
		text, ok := pdu.Value.(string)
		if !ok || text == "" {
			return Value{OID: pdu.Name, Placeholder: DecodeFailure}
		}

		return Value{OID: pdu.Name, Text: text, Raw: []byte(text)}
	default:
		n := gosnmp.ToBigInt(pdu.Value)
		if n == nil {
			return Value{OID: pdu.Name, Placeholder: DecodeFailure}
		}

		text := n.String()

		return Value{OID: pdu.Name, Text: text, Raw: []byte(text)}
	}
}

func decodeText(raw []byte) (string, bool) {
	out, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", false
	}

	return string(out), true
}
