package handlers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/sunet/openstack-operator/api/v1alpha1"
)

// captureOutput redirects handler output into a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })
	return &buf
}

// useKubeClient makes handlers use c instead of a kubeconfig.
func useKubeClient(t *testing.T, c client.Client) {
	t.Helper()
	orig := newKubeClient
	newKubeClient = func(string) (client.Client, error) { return c, nil }
	t.Cleanup(func() { newKubeClient = orig })
}

func newFakeClient(objs ...client.Object) client.Client {
	return fake.NewClientBuilder().
		WithScheme(v1alpha1.Scheme).
		WithObjects(objs...).
		Build()
}

// writeConfig writes an operator config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "operator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

var ctx = context.Background()
