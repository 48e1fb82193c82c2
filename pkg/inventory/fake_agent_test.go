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

package inventory

import (
	"github.com/carverauto/snmp-inventory/pkg/snmp"
)

// fakeAgent answers queries from fixed tables and records every OID asked for.
type fakeAgent struct {
	values  map[string]snmp.Value
	next    map[string]snmp.Value
	walks   map[string][]snmp.Value
	queries []string
}

func newFakeAgent() *fakeAgent {
	return &fakeAgent{
		values: make(map[string]snmp.Value),
		next:   make(map[string]snmp.Value),
		walks:  make(map[string][]snmp.Value),
	}
}

func (f *fakeAgent) Get(oid string) snmp.Value {
	f.queries = append(f.queries, oid)

	if v, ok := f.values[oid]; ok {
		return v
	}

	return snmp.Value{OID: oid, Placeholder: snmp.NoResponse}
}

func (f *fakeAgent) GetNext(oid string) snmp.Value {
	f.queries = append(f.queries, oid)

	if v, ok := f.next[oid]; ok {
		return v
	}

	return snmp.Value{OID: oid, Placeholder: snmp.NoResponse}
}

func (f *fakeAgent) Walk(oid string) []snmp.Value {
	f.queries = append(f.queries, oid)

	return f.walks[oid]
}

func (f *fakeAgent) setText(oid, text string) {
	f.values[oid] = snmp.Value{OID: oid, Text: text, Raw: []byte(text)}
}

func (f *fakeAgent) setRaw(oid string, raw []byte) {
	f.values[oid] = snmp.Value{OID: oid, Raw: raw, Placeholder: snmp.DecodeFailure}
}

func (f *fakeAgent) addInterface(ip, ifIndex, mask, descr string, mac []byte) {
	f.walks[snmp.OIDIPAdEntAddr] = append(f.walks[snmp.OIDIPAdEntAddr], snmp.Value{
		OID:  snmp.Instance(snmp.OIDIPAdEntAddr, ip),
		Text: ip,
		Raw:  []byte(ip),
	})

	if ifIndex != "" {
		f.setText(snmp.Instance(snmp.OIDIPAdEntIfIndex, ip), ifIndex)
	}

	if mask != "" {
		f.setText(snmp.Instance(snmp.OIDIPAdEntNetMask, ip), mask)
	}

	if ifIndex == "" {
		return
	}

	if descr != "" {
		f.setText(snmp.Instance(snmp.OIDIfDescr, ifIndex), descr)
	}

	if mac != nil {
		f.setRaw(snmp.Instance(snmp.OIDIfPhysAddress, ifIndex), mac)
	}
}

// scenarioAgent models switch-core-1 at 192.0.2.10.
func scenarioAgent() *fakeAgent {
	agent := newFakeAgent()
	agent.setText(snmp.OIDSysName, "switch-core-1")
	agent.next[snmp.OIDEntPhysicalModelName] = snmp.Value{
		OID:  snmp.OIDEntPhysicalModelName + ".1",
		Text: "ModelX900",
		Raw:  []byte("ModelX900"),
	}
	agent.addInterface("10.0.0.1", "1", "255.255.255.0", "eth0", []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff})

	return agent
}
