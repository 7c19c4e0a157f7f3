package tomo

import (
	"context"
	"fmt"

	"github.com/GridlineHQ/gridline/backend/internal/providers/common"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"

	domain "github.com/GridlineHQ/gridline/backend/internal/domain/tomo"
	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
)

const (
	defaultAir        = 1
	defaultIterations = 10
)

// defaultPhaseOptions matches the conventional retrieve_phase parameters:
// 1e-4 cm pixels, 50 cm propagation distance, 20 keV, alpha 1e-3.
var defaultPhaseOptions = domain.PhaseOptions{
	PixelSize: 1e-4,
	Dist:      50,
	Energy:    20,
	Alpha:     1e-3,
}

func (p *Provider) load(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	proj, err := common.GetOperand(params, "proj")
	if err != nil {
		return common.Failure(err.Error())
	}
	white, err := common.GetOperand(params, "white")
	if err != nil {
		return common.Failure(err.Error())
	}
	dark, err := common.GetOperand(params, "dark")
	if err != nil {
		return common.Failure(err.Error())
	}
	theta, ok := common.GetNumbers(params, "theta")
	if !ok {
		return common.Failure("theta must be an array of numbers")
	}

	ds, err := p.manager.Load(proj, white, dark, theta)
	if err != nil {
		return common.DomainFailure(err)
	}
	return common.Success(infoData(ds.Snapshot()))
}

func (p *Provider) normalize(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}

	if inPlace, ok := common.GetBool(params, "in_place"); ok && !inPlace {
		out, err := ds.NormalizedCopy(ctx, p.manager.Backend())
		if err != nil {
			return common.DomainFailure(err)
		}
		return preview(ds, out)
	}

	if err := ds.Normalize(ctx, p.manager.Backend()); err != nil {
		return common.DomainFailure(err)
	}
	return common.Success(stateData(ds))
}

func (p *Provider) correctDrift(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}
	air, err := optionalInt(params, "air", defaultAir)
	if err != nil {
		return common.Failure(err.Error())
	}

	if inPlace, ok := common.GetBool(params, "in_place"); ok && !inPlace {
		out, err := ds.DriftCorrectedCopy(ctx, p.manager.Backend(), air)
		if err != nil {
			return common.DomainFailure(err)
		}
		return preview(ds, out)
	}

	if err := ds.CorrectDrift(ctx, p.manager.Backend(), air); err != nil {
		return common.DomainFailure(err)
	}
	return common.Success(stateData(ds))
}

func (p *Provider) phaseRetrieval(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}

	opts := defaultPhaseOptions
	var err error
	if opts.PixelSize, err = optionalNumber(params, "pixel_size", opts.PixelSize); err != nil {
		return common.Failure(err.Error())
	}
	if opts.Dist, err = optionalNumber(params, "dist", opts.Dist); err != nil {
		return common.Failure(err.Error())
	}
	if opts.Energy, err = optionalNumber(params, "energy", opts.Energy); err != nil {
		return common.Failure(err.Error())
	}
	if opts.Alpha, err = optionalNumber(params, "alpha", opts.Alpha); err != nil {
		return common.Failure(err.Error())
	}

	if err := ds.PhaseRetrieval(ctx, p.manager.Backend(), opts); err != nil {
		return common.DomainFailure(err)
	}
	return common.Success(stateData(ds))
}

func (p *Provider) findCenter(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}
	center, err := ds.FindCenter(ctx, p.manager.Backend())
	if err != nil {
		return common.DomainFailure(err)
	}
	return common.Success(map[string]interface{}{
		"dataset_id": ds.ID(),
		"center":     center,
	})
}

func (p *Provider) diagnoseCenter(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}
	start, ok := common.GetNumber(params, "center_start")
	if !ok {
		return common.Failure("center_start parameter required")
	}
	end, ok := common.GetNumber(params, "center_end")
	if !ok {
		return common.Failure("center_end parameter required")
	}

	trials, err := ds.DiagnoseCenter(ctx, p.manager.Backend(), start, end)
	if err != nil {
		return common.DomainFailure(err)
	}
	data := arrayData(trials)
	data["dataset_id"] = ds.ID()
	data["center_start"] = start
	data["center_end"] = end
	return common.Success(data)
}

func (p *Provider) gridrec(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}
	if err := ds.GridRec(ctx, p.manager.Backend()); err != nil {
		return common.DomainFailure(err)
	}
	return reconResult(ds)
}

func (p *Provider) sirt(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}
	iterations, err := optionalInt(params, "iterations", defaultIterations)
	if err != nil {
		return common.Failure(err.Error())
	}
	if err := ds.SIRT(ctx, p.manager.Backend(), iterations); err != nil {
		return common.DomainFailure(err)
	}
	return reconResult(ds)
}

func (p *Provider) art(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	ds, fail := p.getDataset(params)
	if fail != nil {
		return fail, nil
	}
	iterations, err := optionalInt(params, "iterations", defaultIterations)
	if err != nil {
		return common.Failure(err.Error())
	}
	if err := ds.ART(ctx, p.manager.Backend(), iterations); err != nil {
		return common.DomainFailure(err)
	}
	return reconResult(ds)
}

// preview packs a stage output that was not written back to the dataset.
func preview(ds *domain.Dataset, out *ndarray.Array) (*types.Result, error) {
	data := arrayData(out)
	data["dataset_id"] = ds.ID()
	data["state"] = string(ds.State())
	return common.Success(data)
}

// reconResult reports the post-reconstruction state, volume shape, and the
// center the reconstruction used.
func reconResult(ds *domain.Dataset) (*types.Result, error) {
	data := stateData(ds)
	data["shape"] = ds.Data().Shape()
	if center, ok := ds.Center(); ok {
		data["center"] = center
	}
	return common.Success(data)
}

func optionalInt(params map[string]interface{}, key string, def int) (int, error) {
	if _, ok := params[key]; !ok {
		return def, nil
	}
	v, ok := common.GetInt(params, key)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func optionalNumber(params map[string]interface{}, key string, def float64) (float64, error) {
	if _, ok := params[key]; !ok {
		return def, nil
	}
	v, ok := common.GetNumber(params, key)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}
