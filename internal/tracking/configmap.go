package tracking

import (
	"context"
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/sunet/openstack-operator/internal/util/labels"
)

// ConfigMapDataKey holds the serialized document.
const ConfigMapDataKey = "records.json"

// ConfigMapBackend stores the document in one ConfigMap. The resource
// version is the version token.
type ConfigMapBackend struct {
	// reader must bypass the informer cache, otherwise a stale read loops on conflicts.
	reader    client.Reader
	writer    client.Writer
	namespace string
	name      string
}

// NewConfigMapBackend returns a backend reading through reader and writing through writer.
func NewConfigMapBackend(reader client.Reader, writer client.Writer, namespace, name string) *ConfigMapBackend {
	return &ConfigMapBackend{reader: reader, writer: writer, namespace: namespace, name: name}
}

// NewConfigMapStore returns a DocumentStore backed by a ConfigMap.
func NewConfigMapStore(reader client.Reader, writer client.Writer, namespace, name string, opts ...Option) *DocumentStore {
	return NewDocumentStore(NewConfigMapBackend(reader, writer, namespace, name), opts...)
}

func (b *ConfigMapBackend) Load(ctx context.Context) (*Document, string, error) {
	cm := &corev1.ConfigMap{}
	err := b.reader.Get(ctx, types.NamespacedName{Namespace: b.namespace, Name: b.name}, cm)
	if apierrors.IsNotFound(err) {
		return NewDocument(), "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read tracking configmap %s/%s: %w", b.namespace, b.name, err)
	}

	doc := NewDocument()
	if raw := cm.Data[ConfigMapDataKey]; raw != "" {
		if err := json.Unmarshal([]byte(raw), doc); err != nil {
			return nil, "", fmt.Errorf("failed to decode tracking configmap %s/%s: %w", b.namespace, b.name, err)
		}
	}
	if doc.Records == nil {
		doc.Records = map[string]Record{}
	}
	return doc, cm.ResourceVersion, nil
}

func (b *ConfigMapBackend) Save(ctx context.Context, doc *Document, version string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode tracking document: %w", err)
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:            b.name,
			Namespace:       b.namespace,
			ResourceVersion: version,
			Labels:          labels.NewLabelBuilder().WithComponent(labels.ComponentTracking).Build(),
		},
		Data: map[string]string{ConfigMapDataKey: string(data)},
	}

	if version == "" {
		err = b.writer.Create(ctx, cm)
		if apierrors.IsAlreadyExists(err) {
			return &ConflictError{Version: version, Err: err}
		}
	} else {
		err = b.writer.Update(ctx, cm)
		if apierrors.IsConflict(err) || apierrors.IsNotFound(err) {
			return &ConflictError{Version: version, Err: err}
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write tracking configmap %s/%s: %w", b.namespace, b.name, err)
	}
	return nil
}
