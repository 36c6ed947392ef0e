package openstack

import (
	"context"

	volumequotas "github.com/gophercloud/gophercloud/v2/openstack/blockstorage/v3/quotasets"
)

func (c *Client) GetStorageQuota(ctx context.Context, projectID string) (*StorageQuota, error) {
	var out *StorageQuota
	err := c.call(ctx, serviceVolume, "get_quota", func(ctx context.Context) error {
		q, err := volumequotas.Get(ctx, c.volume, projectID).Extract()
		if err != nil {
			return err
		}
		out = &StorageQuota{
			Volumes:         &q.Volumes,
			Gigabytes:       &q.Gigabytes,
			Snapshots:       &q.Snapshots,
			Backups:         &q.Backups,
			BackupGigabytes: &q.BackupGigabytes,
		}
		return nil
	})
	return out, err
}

func (c *Client) GetStorageUsage(ctx context.Context, projectID string) (*StorageQuota, error) {
	var out *StorageQuota
	err := c.call(ctx, serviceVolume, "get_quota_usage", func(ctx context.Context) error {
		q, err := volumequotas.GetUsage(ctx, c.volume, projectID).Extract()
		if err != nil {
			return err
		}
		used := func(u volumequotas.QuotaUsage) *int {
			n := u.InUse + u.Reserved
			return &n
		}
		out = &StorageQuota{
			Volumes:         used(q.Volumes),
			Gigabytes:       used(q.Gigabytes),
			Snapshots:       used(q.Snapshots),
			Backups:         used(q.Backups),
			BackupGigabytes: used(q.BackupGigabytes),
		}
		return nil
	})
	return out, err
}

func (c *Client) UpdateStorageQuota(ctx context.Context, projectID string, q StorageQuota) error {
	return c.call(ctx, serviceVolume, "update_quota", func(ctx context.Context) error {
		_, err := volumequotas.Update(ctx, c.volume, projectID, volumequotas.UpdateOpts{
			Volumes:         q.Volumes,
			Gigabytes:       q.Gigabytes,
			Snapshots:       q.Snapshots,
			Backups:         q.Backups,
			BackupGigabytes: q.BackupGigabytes,
		}).Extract()
		return err
	})
}
