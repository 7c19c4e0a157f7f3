package tomo

import (
	"context"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"

	domain "github.com/GridlineHQ/gridline/backend/internal/domain/tomo"
)

func (p *Provider) data(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}
	data := arrayData(ds.Data())
	data["dataset_id"] = ds.ID()
	data["state"] = string(ds.State())
	return common.Success(data)
}

func (p *Provider) state(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}
	return common.Success(infoData(ds.Snapshot()))
}

func (p *Provider) release(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	datasetID, ok := common.GetString(params, "dataset_id")
	if !ok {
		return common.Failure("dataset_id parameter required")
	}
	return common.Success(map[string]interface{}{
		"dataset_id": datasetID,
		"released":   p.manager.Release(datasetID),
	})
}

func (p *Provider) list(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	infos := p.manager.List()
	datasets := make([]interface{}, len(infos))
	for i, info := range infos {
		datasets[i] = infoData(info)
	}
	return common.Success(map[string]interface{}{
		"datasets": datasets,
		"count":    len(datasets),
	})
}

// infoData flattens a dataset snapshot for transport.
func infoData(info domain.Info) map[string]interface{} {
	data := map[string]interface{}{
		"dataset_id":  info.ID,
		"fingerprint": info.Fingerprint,
		"state":       string(info.State),
		"shape":       info.Shape,
		"angles":      info.Angles,
		"created_at":  info.CreatedAt,
		"updated_at":  info.UpdatedAt,
	}
	if info.Center != nil {
		data["center"] = *info.Center
	}
	return data
}
