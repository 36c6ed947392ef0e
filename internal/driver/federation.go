package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/naming"
)

// Keys of the federation ConfigMap.
const (
	KeyIDPName     = "idp-name"
	KeyIDPRemoteID = "idp-remote-id"
	KeySSODomain   = "sso-domain"
)

// remoteSubject is the OIDC claim users are mapped by.
const remoteSubject = "HTTP_OIDC_SUB"

type federationConfig struct {
	IDPName   string
	RemoteID  string
	SSODomain string
}

func (c federationConfig) mapping() string {
	return naming.FederationMapping(c.IDPName)
}

// federationConfig reads the ConfigMap a project points at. The SSO domain
// defaults to the project's domain.
func (d *Drivers) federationConfig(ctx context.Context, obj *v1alpha1.OpenstackProject) (federationConfig, error) {
	ref := obj.Spec.FederationRef
	if d.Reader == nil {
		return federationConfig{}, Permanent(ReasonInvalidFederationRef, "federation is not available")
	}
	key := types.NamespacedName{Namespace: ref.ConfigMapNamespace, Name: ref.ConfigMapName}
	if key.Namespace == "" {
		key.Namespace = obj.Namespace
	}
	var cm corev1.ConfigMap
	if err := d.Reader.Get(ctx, key, &cm); err != nil {
		if apierrors.IsNotFound(err) {
			return federationConfig{}, Permanent(ReasonInvalidFederationRef, "ConfigMap %s not found", key)
		}
		return federationConfig{}, &TransientError{Op: "get ConfigMap " + key.String(), Err: err}
	}
	cfg := federationConfig{
		IDPName:   cm.Data[KeyIDPName],
		RemoteID:  cm.Data[KeyIDPRemoteID],
		SSODomain: cm.Data[KeySSODomain],
	}
	if cfg.IDPName == "" {
		return federationConfig{}, Permanent(ReasonInvalidFederationRef, "ConfigMap %s has no %s", key, KeyIDPName)
	}
	if cfg.SSODomain == "" {
		cfg.SSODomain = obj.Spec.Domain
	}
	return cfg, nil
}

type ruleDomain struct {
	Name string `json:"name"`
}

type ruleUser struct {
	Name   string     `json:"name"`
	Domain ruleDomain `json:"domain"`
	Type   string     `json:"type"`
}

type ruleGroup struct {
	Name   string     `json:"name"`
	Domain ruleDomain `json:"domain"`
}

type ruleLocal struct {
	User  *ruleUser  `json:"user,omitempty"`
	Group *ruleGroup `json:"group,omitempty"`
}

type ruleRemote struct {
	Type     string   `json:"type"`
	AnyOneOf []string `json:"any_one_of,omitempty"`
}

type mappingRule struct {
	Local  []ruleLocal  `json:"local"`
	Remote []ruleRemote `json:"remote"`
}

// groupRule maps the listed OIDC subjects to ephemeral users in the
// project group.
func groupRule(group, ssoDomain string, users []string) json.RawMessage {
	rule := mappingRule{
		Local: []ruleLocal{
			{User: &ruleUser{Name: "{0}", Domain: ruleDomain{Name: ssoDomain}, Type: "ephemeral"}},
			{Group: &ruleGroup{Name: group, Domain: ruleDomain{Name: ssoDomain}}},
		},
		Remote: []ruleRemote{
			{Type: remoteSubject},
			{Type: remoteSubject, AnyOneOf: users},
		},
	}
	raw, _ := json.Marshal(rule)
	return raw
}

// ruleGroupName returns the local group a rule maps to, or "" for rules
// that are not ours to read.
func ruleGroupName(raw json.RawMessage) string {
	var rule mappingRule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return ""
	}
	for _, l := range rule.Local {
		if l.Group != nil {
			return l.Group.Name
		}
	}
	return ""
}

// sameMappingRule compares a stored rule with a generated one, ignoring formatting.
func sameMappingRule(stored, generated json.RawMessage) bool {
	var rule mappingRule
	if err := json.Unmarshal(stored, &rule); err != nil {
		return false
	}
	normalized, err := json.Marshal(rule)
	return err == nil && bytes.Equal(normalized, generated)
}

// upsertRule replaces the rule of group or appends one. Rules of other
// groups are kept untouched.
func upsertRule(rules []json.RawMessage, group string, rule json.RawMessage) ([]json.RawMessage, bool) {
	i := slices.IndexFunc(rules, func(r json.RawMessage) bool { return ruleGroupName(r) == group })
	if i < 0 {
		return append(slices.Clone(rules), rule), true
	}
	if sameMappingRule(rules[i], rule) {
		return rules, false
	}
	out := slices.Clone(rules)
	out[i] = rule
	return out, true
}

func (d *Drivers) lockMapping(ctx context.Context, mapping string) (func(), error) {
	unlock, err := d.Locks.Lock(ctx, "mapping/"+mapping)
	if err != nil {
		return nil, &TransientError{Op: "lock mapping " + mapping, Err: err}
	}
	return unlock, nil
}

// removeRule drops the rule of group from a mapping. A missing mapping or
// rule is not an error.
func (d *Drivers) removeRule(ctx context.Context, mapping, group string) error {
	unlock, err := d.lockMapping(ctx, mapping)
	if err != nil {
		return err
	}
	defer unlock()

	m, err := d.Cloud.GetMapping(ctx, mapping)
	if openstack.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return classify("get mapping "+mapping, err)
	}
	rules := slices.DeleteFunc(slices.Clone(m.Rules), func(r json.RawMessage) bool { return ruleGroupName(r) == group })
	if len(rules) == len(m.Rules) {
		return nil
	}
	if _, err := d.Cloud.UpdateMapping(ctx, mapping, rules); err != nil {
		return classify("update mapping "+mapping, err)
	}
	log.FromContext(ctx).Info("Removed federation rule", "mapping", mapping, "group", group)
	return nil
}

func (p *projectPass) runFederation(ctx context.Context) (Outcome, error) {
	logger := log.FromContext(ctx)
	cloud := p.d.Cloud

	cfg, err := p.d.federationConfig(ctx, p.obj)
	if err != nil {
		return Outcome{}, err
	}
	users := planner.Users(p.obj.Spec.RoleBindings)
	if len(users) == 0 {
		return Outcome{Message: "no users to map"}, nil
	}
	group := p.groupName()
	mapping := cfg.mapping()

	// A rule written into another mapping before the identity provider
	// changed is removed first.
	if rec, ok := p.scope.Record(tracking.KindFederationRule, group); ok && rec.Attr(attrMapping) != mapping {
		if err := p.d.removeRule(ctx, rec.Attr(attrMapping), group); err != nil {
			return Outcome{}, err
		}
	}

	unlock, err := p.d.lockMapping(ctx, mapping)
	if err != nil {
		return Outcome{}, err
	}
	defer unlock()
	changed := false

	if _, err := cloud.GetIdentityProvider(ctx, cfg.IDPName); err != nil {
		if !openstack.IsNotFound(err) {
			return Outcome{}, classify("get identity provider", err)
		}
		var remoteIDs []string
		if cfg.RemoteID != "" {
			remoteIDs = []string{cfg.RemoteID}
		}
		if _, err := cloud.CreateIdentityProvider(ctx, cfg.IDPName, remoteIDs); err != nil {
			return Outcome{}, classify("create identity provider", err)
		}
		logger.Info("Created identity provider", "idp", cfg.IDPName)
		changed = true
	}

	rule := groupRule(group, cfg.SSODomain, users)
	m, err := cloud.GetMapping(ctx, mapping)
	switch {
	case openstack.IsNotFound(err):
		if _, err := cloud.CreateMapping(ctx, mapping, []json.RawMessage{rule}); err != nil {
			return Outcome{}, classify("create mapping", err)
		}
		logger.Info("Created federation mapping", "mapping", mapping)
		changed = true
	case err != nil:
		return Outcome{}, classify("get mapping", err)
	default:
		rules, updated := upsertRule(m.Rules, group, rule)
		if updated {
			if _, err := cloud.UpdateMapping(ctx, mapping, rules); err != nil {
				return Outcome{}, classify("update mapping", err)
			}
			logger.Info("Updated federation rule", "mapping", mapping, "group", group, "users", len(users))
			changed = true
		}
	}

	if _, err := cloud.GetProtocol(ctx, cfg.IDPName, naming.FederationProtocol); err != nil {
		if !openstack.IsNotFound(err) {
			return Outcome{}, classify("get protocol", err)
		}
		if _, err := cloud.CreateProtocol(ctx, cfg.IDPName, naming.FederationProtocol, mapping); err != nil {
			return Outcome{}, classify("create protocol", err)
		}
		changed = true
	}

	rec := p.scope.New(tracking.KindFederationRule, group, mapping+"/"+group)
	rec.Attributes = map[string]string{attrMapping: mapping, attrGroup: group}
	if err := p.scope.Track(ctx, rec); err != nil {
		return Outcome{}, err
	}
	return Outcome{Changed: changed}, nil
}
