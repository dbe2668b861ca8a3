package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/aryankumar/probectl/internal/cluster"
	"github.com/aryankumar/probectl/internal/probe"
)

// ClientsetFunc supplies a clientset when the probe runs
// It lets plans name a kubeconfig context without connecting at build time
type ClientsetFunc func(ctx context.Context) (kubernetes.Interface, error)

// StaticClientset returns a ClientsetFunc for an existing clientset
func StaticClientset(clientset kubernetes.Interface) ClientsetFunc {
	return func(context.Context) (kubernetes.Interface, error) {
		if clientset == nil {
			return nil, nilComponentError("kubernetes", "clientset")
		}
		return clientset, nil
	}
}

// KubeAPI checks that the API server answers a version request
func KubeAPI(clientset ClientsetFunc) probe.Operation {
	return func(ctx context.Context) error {
		ctx = contextOrBackground(ctx)
		cs, err := clientset(ctx)
		if err != nil {
			return probeFailed("kube-api", err)
		}
		if _, err := cluster.ServerVersion(ctx, cs); err != nil {
			return probeFailed("kube-api", err)
		}
		return nil
	}
}

// KubeNodesReady checks that the cluster has nodes and every node is Ready
func KubeNodesReady(clientset ClientsetFunc) probe.Operation {
	return func(ctx context.Context) error {
		ctx = contextOrBackground(ctx)
		cs, err := clientset(ctx)
		if err != nil {
			return probeFailed("kube-nodes", err)
		}

		nodes, err := cs.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return probeFailed("kube-nodes", err)
		}
		if len(nodes.Items) == 0 {
			return errors.New("kube-nodes probe: cluster has no nodes")
		}

		var notReady []string
		for _, node := range nodes.Items {
			if !nodeReady(node) {
				notReady = append(notReady, node.Name)
			}
		}
		if len(notReady) > 0 {
			sort.Strings(notReady)
			return errors.Errorf("kube-nodes probe: %d/%d nodes not ready: %s",
				len(notReady), len(nodes.Items), strings.Join(notReady, ", "))
		}
		return nil
	}
}

func nodeReady(node corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

// KubeRollout checks that the latest rollout of a deployment has completed
// The probe fails while the rollout is in progress, so retries wait for it
func KubeRollout(clientset ClientsetFunc, namespace, name string) probe.Operation {
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}

	return func(ctx context.Context) error {
		if name == "" {
			return errors.New("kube-rollout probe: deployment is required")
		}
		ctx = contextOrBackground(ctx)

		cs, err := clientset(ctx)
		if err != nil {
			return probeFailed("kube-rollout", err)
		}

		deployment, err := cs.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return probeFailed("kube-rollout", err)
		}

		if reason := rolloutPending(deployment); reason != "" {
			return errors.Errorf("kube-rollout probe: deployment %s/%s: %s", namespace, name, reason)
		}
		return nil
	}
}

// rolloutPending describes why a rollout is not finished, or returns ""
func rolloutPending(d *appsv1.Deployment) string {
	if d.Generation > d.Status.ObservedGeneration {
		return "waiting for the deployment spec update to be observed"
	}

	for _, cond := range d.Status.Conditions {
		if cond.Type == appsv1.DeploymentProgressing && cond.Reason == "ProgressDeadlineExceeded" {
			return "exceeded its progress deadline"
		}
	}

	replicas := int32(1)
	if d.Spec.Replicas != nil {
		replicas = *d.Spec.Replicas
	}

	status := d.Status
	switch {
	case status.UpdatedReplicas < replicas:
		return formatReplicas(status.UpdatedReplicas, replicas, "new replicas have been updated")
	case status.Replicas > status.UpdatedReplicas:
		return formatReplicas(status.Replicas-status.UpdatedReplicas, status.Replicas, "old replicas are pending termination")
	case status.AvailableReplicas < status.UpdatedReplicas:
		return formatReplicas(status.AvailableReplicas, status.UpdatedReplicas, "updated replicas are available")
	}
	return ""
}

func formatReplicas(n, of int32, what string) string {
	return fmt.Sprintf("%d of %d %s", n, of, what)
}
