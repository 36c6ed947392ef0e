//go:build integration

// Integration tests using envtest.
//
// Envtest runs a real kube-apiserver and etcd, which catches problems with
// CRD validation, the status subresource, finalizers and watches that the
// fake client hides. OpenStack is the in-memory fake.
//
// Run these tests with:
//
//	KUBEBUILDER_ASSETS="$(setup-envtest use -p path)" go test -v -tags=integration ./internal/operator/controller/...
package controller

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/envtest"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/driver"
	osfake "github.com/sunet/openstack-operator/internal/openstack/fake"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/ptr"
)

// Test configuration
var (
	cfg       *rest.Config
	k8sClient client.Client
	testEnv   *envtest.Environment
	ctx       context.Context
	cancel    context.CancelFunc

	// Fake cloud and store accessible to tests for verification
	fakeCloud *osfake.Cloud
	store     tracking.Store
)

const operatorNamespace = "openstack-operator"

// TestControllerIntegration is the entry point for Ginkgo tests.
func TestControllerIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Controller Integration Suite")
}

var _ = BeforeSuite(func() {
	logf.SetLogger(zap.New(zap.WriteTo(GinkgoWriter), zap.UseDevMode(true)))

	ctx, cancel = context.WithCancel(context.Background())

	By("bootstrapping test environment with real kube-apiserver and etcd")
	testEnv = &envtest.Environment{
		CRDDirectoryPaths:     []string{filepath.Join("..", "..", "..", "config", "crd", "bases")},
		ErrorIfCRDPathMissing: true,
	}

	var err error
	cfg, err = testEnv.Start()
	Expect(err).NotTo(HaveOccurred())
	Expect(cfg).NotTo(BeNil())

	k8sClient, err = client.New(cfg, client.Options{Scheme: v1alpha1.Scheme})
	Expect(err).NotTo(HaveOccurred())

	for _, ns := range []string{operatorNamespace, "tenants"} {
		Expect(k8sClient.Create(ctx, &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: ns}})).To(Succeed())
	}

	k8sManager, err := ctrl.NewManager(cfg, ctrl.Options{
		Scheme:  v1alpha1.Scheme,
		Metrics: metricsserver.Options{BindAddress: "0"},
	})
	Expect(err).NotTo(HaveOccurred())

	// The tracking store lives in a ConfigMap, like in production.
	fakeCloud = osfake.New()
	fakeCloud.AutoCompleteImports = true
	fakeCloud.AddDomain("default")
	fakeCloud.AddExternalNetwork("external")
	store = tracking.NewConfigMapStore(k8sManager.GetAPIReader(), k8sManager.GetClient(), operatorNamespace, "openstack-operator-registry")

	drivers := driver.New(fakeCloud, store, k8sManager.GetAPIReader())
	orch := NewOrchestrator(
		k8sManager.GetClient(),
		drivers,
		k8sManager.GetEventRecorderFor("openstack-operator"),
		WithMetrics(false), // Disable metrics to avoid port conflicts in tests
	)
	Expect(SetupAll(k8sManager, orch, "", 2)).To(Succeed())

	go func() {
		defer GinkgoRecover()
		err = k8sManager.Start(ctx)
		Expect(err).NotTo(HaveOccurred())
	}()

	By("waiting for manager cache to sync")
	Eventually(func() bool {
		return k8sManager.GetCache().WaitForCacheSync(ctx)
	}, time.Second*30, time.Millisecond*500).Should(BeTrue(), "timed out waiting for cache sync")
})

var _ = AfterSuite(func() {
	cancel()
	By("tearing down the test environment")
	err := testEnv.Stop()
	Expect(err).NotTo(HaveOccurred())
})

var _ = Describe("OpenStack controllers", func() {
	const (
		timeout  = time.Second * 30
		interval = time.Millisecond * 250
	)

	Context("OpenstackProject", func() {
		var name string

		BeforeEach(func() {
			name = fmt.Sprintf("team-%d", GinkgoRandomSeed())
		})

		It("provisions the project and tears it down on delete", func() {
			project := &v1alpha1.OpenstackProject{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "tenants"},
				Spec: v1alpha1.OpenstackProjectSpec{
					Name:   name + ".example.com",
					Domain: "default",
					Quotas: &v1alpha1.QuotaSpec{Compute: &v1alpha1.ComputeQuota{Instances: ptr.Int(20)}},
					Networks: []v1alpha1.ProjectNetworkSpec{{
						Name: "internal", CIDR: "192.168.100.0/24",
						Router: &v1alpha1.RouterSpec{ExternalNetwork: "external"},
					}},
					SecurityGroups: []v1alpha1.SecurityGroupSpec{{
						Name: "allow-ssh",
						Rules: []v1alpha1.SecurityGroupRuleSpec{{
							Direction: "ingress", Protocol: "tcp",
							PortRangeMin: ptr.Int(22), PortRangeMax: ptr.Int(22), RemoteIPPrefix: "0.0.0.0/0",
						}},
					}},
				},
			}
			Expect(k8sClient.Create(ctx, project)).To(Succeed())
			key := types.NamespacedName{Name: name, Namespace: "tenants"}

			By("waiting for the Ready phase")
			got := &v1alpha1.OpenstackProject{}
			Eventually(func(g Gomega) {
				g.Expect(k8sClient.Get(ctx, key, got)).To(Succeed())
				g.Expect(got.Status.Phase).To(Equal(v1alpha1.PhaseReady))
			}, timeout, interval).Should(Succeed())

			Expect(got.Finalizers).To(ContainElement(v1alpha1.Finalizer))
			Expect(got.Status.Networks).To(HaveLen(1))
			Expect(got.Status.Networks[0].RouterID).NotTo(BeEmpty())
			Expect(got.Status.SecurityGroups).To(HaveLen(1))
			Expect(meta.IsStatusConditionTrue(got.Status.Conditions, v1alpha1.ConditionSecurityGroupsReady)).To(BeTrue())

			recs, err := store.ListByOwner(ctx, string(got.UID))
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).NotTo(BeEmpty())

			By("deleting the resource")
			Expect(k8sClient.Delete(ctx, got)).To(Succeed())
			Eventually(func() bool {
				return errors.IsNotFound(k8sClient.Get(ctx, key, &v1alpha1.OpenstackProject{}))
			}, timeout, interval).Should(BeTrue())

			recs, err = store.ListByOwner(ctx, string(got.UID))
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(BeEmpty())
		})
	})

	Context("OpenstackFlavor", func() {
		It("rejects a change of sizing", func() {
			name := fmt.Sprintf("m1-%d", GinkgoRandomSeed())
			flavor := &v1alpha1.OpenstackFlavor{
				ObjectMeta: metav1.ObjectMeta{Name: name},
				Spec:       v1alpha1.OpenstackFlavorSpec{Name: name, VCPUs: 1, RAM: 1024, Disk: 10},
			}
			Expect(k8sClient.Create(ctx, flavor)).To(Succeed())
			key := types.NamespacedName{Name: name}

			got := &v1alpha1.OpenstackFlavor{}
			Eventually(func(g Gomega) {
				g.Expect(k8sClient.Get(ctx, key, got)).To(Succeed())
				g.Expect(got.Status.Phase).To(Equal(v1alpha1.PhaseReady))
			}, timeout, interval).Should(Succeed())

			got.Spec.VCPUs = 2
			Expect(k8sClient.Update(ctx, got)).To(Succeed())

			Eventually(func(g Gomega) {
				g.Expect(k8sClient.Get(ctx, key, got)).To(Succeed())
				g.Expect(got.Status.Phase).To(Equal(v1alpha1.PhaseError))
				c := meta.FindStatusCondition(got.Status.Conditions, v1alpha1.ConditionFlavorReady)
				g.Expect(c).NotTo(BeNil())
				g.Expect(c.Reason).To(Equal(driver.ReasonImmutableFieldChanged))
			}, timeout, interval).Should(Succeed())

			got.Finalizers = nil
			Expect(k8sClient.Update(ctx, got)).To(Succeed())
			Expect(k8sClient.Delete(ctx, got)).To(Succeed())
		})
	})
})
