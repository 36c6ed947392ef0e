package v1alpha1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestEffectiveRules_AddsDefaultEgress(t *testing.T) {
	g := SecurityGroupSpec{Name: "allow-ssh", Rules: []SecurityGroupRuleSpec{{
		Direction:      DirectionIngress,
		Protocol:       "tcp",
		PortRangeMin:   intPtr(22),
		PortRangeMax:   intPtr(22),
		RemoteIPPrefix: "0.0.0.0/0",
	}}}

	rules := g.EffectiveRules()
	assert.Len(t, rules, 2)
	assert.Equal(t, DirectionEgress, rules[1].Direction)
	assert.Len(t, g.Rules, 1)
}

func TestEffectiveRules_KeepsExplicitEgress(t *testing.T) {
	g := SecurityGroupSpec{Name: "locked", Rules: []SecurityGroupRuleSpec{{
		Direction:      DirectionEgress,
		Protocol:       "tcp",
		PortRangeMin:   intPtr(443),
		PortRangeMax:   intPtr(443),
		RemoteIPPrefix: "10.0.0.0/8",
	}}}
	assert.Len(t, g.EffectiveRules(), 1)
}

func TestFingerprint(t *testing.T) {
	ssh := SecurityGroupRuleSpec{Direction: "ingress", Protocol: "TCP", PortRangeMin: intPtr(22), PortRangeMax: intPtr(22), RemoteIPPrefix: "0.0.0.0/0"}
	assert.Equal(t, "ingress_IPv4_tcp_22-22_0.0.0.0/0", ssh.Fingerprint())

	egress := SecurityGroupRuleSpec{Direction: "egress"}
	assert.Equal(t, "egress_IPv4_any_all_any", egress.Fingerprint())

	peer := SecurityGroupRuleSpec{Direction: "ingress", Protocol: "any", RemoteGroupName: "web", Ethertype: "IPv6"}
	assert.Equal(t, "ingress_IPv6_any_all_sg:web", peer.Fingerprint())
}
