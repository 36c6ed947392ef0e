package v1alpha1

import (
	"fmt"
	"strings"
)

// Rule direction and ethertype values.
const (
	DirectionIngress = "ingress"
	DirectionEgress  = "egress"
	EthertypeIPv4    = "IPv4"
	EthertypeIPv6    = "IPv6"
	ProtocolAny      = "any"
)

// EffectiveEthertype returns the ethertype with its default applied.
func (r *SecurityGroupRuleSpec) EffectiveEthertype() string {
	if r.Ethertype == "" {
		return EthertypeIPv4
	}
	return r.Ethertype
}

// EffectiveProtocol returns the lower-cased protocol, "" meaning any.
func (r *SecurityGroupRuleSpec) EffectiveProtocol() string {
	p := strings.ToLower(r.Protocol)
	if p == ProtocolAny {
		return ""
	}
	return p
}

// Fingerprint identifies a rule by its content. Neutron rules cannot be
// updated, so a changed rule is a different rule.
func (r *SecurityGroupRuleSpec) Fingerprint() string {
	proto := r.EffectiveProtocol()
	if proto == "" {
		proto = ProtocolAny
	}
	ports := "all"
	if r.PortRangeMin != nil || r.PortRangeMax != nil {
		ports = fmt.Sprintf("%d-%d", deref(r.PortRangeMin), deref(r.PortRangeMax))
	}
	remote := r.RemoteIPPrefix
	if r.RemoteGroupName != "" {
		remote = "sg:" + r.RemoteGroupName
	}
	if remote == "" {
		remote = "any"
	}
	return strings.Join([]string{r.Direction, r.EffectiveEthertype(), proto, ports, remote}, "_")
}

// EffectiveRules returns the rules to create, with an egress-allow-all
// rule appended when no rule is egress.
func (g *SecurityGroupSpec) EffectiveRules() []SecurityGroupRuleSpec {
	rules := append([]SecurityGroupRuleSpec(nil), g.Rules...)
	for _, r := range rules {
		if r.Direction == DirectionEgress {
			return rules
		}
	}
	return append(rules, SecurityGroupRuleSpec{Direction: DirectionEgress, Ethertype: EthertypeIPv4})
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
