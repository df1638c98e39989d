package report

import (
	"context"
	"fmt"

	"github.com/zoobzio/timings"
)

// Register adds the report callbacks and types to reg.
func Register(reg *timings.Registry) error {
	mappers := map[string]timings.Mapper{
		"TimingHistory::normalize": normalizeHistory,
	}
	keyMappers := map[string]timings.KeyMapper{
		"TimingHandler::byID":    handlerByID,
		"TimingData::byID":       dataByID,
		"World::byName":          worldByName,
		"Region::key":            regionKey,
		"Region::entityName":     entityName,
		"Region::tileEntityName": tileEntityName,
	}
	resolvers := map[string]timings.Resolver{
		"TimingIdentity::group":   identityGroup,
		"TimingHandler::identity": handlerIdentity,
		"World::name":             worldName,
		"Region::id":              regionID,
	}

	for name, fn := range mappers {
		if err := reg.Mapper(name, fn); err != nil {
			return err
		}
	}
	for name, fn := range keyMappers {
		if err := reg.KeyMapper(name, fn); err != nil {
			return err
		}
	}
	for name, fn := range resolvers {
		if err := reg.Resolver(name, fn); err != nil {
			return err
		}
	}

	steps := []func() error{
		func() error { return timings.Register[MinuteReport](reg, timings.WithTag(TagMinuteReport)) },
		func() error { return timings.Register[Plugin](reg, timings.WithTag(TagPlugin)) },
		func() error { return timings.Register[Region](reg, timings.WithTag(TagRegion)) },
		func() error { return timings.Register[TicksRecord](reg, timings.WithTag(TagTicksRecord)) },
		func() error { return timings.Register[TimingData](reg, timings.WithTag(TagTimingData)) },
		func() error { return timings.Register[TimingHandler](reg, timings.WithTag(TagTimingHandler)) },
		func() error {
			return timings.Register[TimingHistory](reg,
				timings.WithTag(TagTimingHistory),
				timings.WithMapper("normalize"),
			)
		},
		func() error { return timings.Register[TimingIdentity](reg, timings.WithTag(TagTimingIdentity)) },
		func() error {
			return timings.Register[TimingsMap](reg,
				timings.WithTag(TagTimingsMap),
				timings.WithPolicy(timings.ProcessWideSingleton),
			)
		},
		func() error {
			return timings.Register[TimingsMaster](reg,
				timings.WithTag(TagTimingsMaster),
				timings.WithPolicy(timings.ProcessWideSingleton),
			)
		},
		func() error { return timings.Register[TimingsSystemData](reg, timings.WithTag(TagTimingsSystemData)) },
		func() error { return timings.Register[World](reg, timings.WithTag(TagWorld)) },
		func() error { return timings.Register[GCStat](reg) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("register report types: %w", err)
		}
	}
	return nil
}

// Parse decodes data with dec and materializes it as the report root.
func Parse(ctx context.Context, e *timings.Engine, dec timings.Decoder, data []byte) (*TimingsMaster, error) {
	return timings.Parse[TimingsMaster](ctx, e, dec, data)
}

// Fingerprint returns a stable id for a raw report upload: the hex
// BLAKE2b-256 digest of its bytes.
func Fingerprint(raw []byte) string {
	id, _ := timings.BLAKE2bHasher().Hash(raw)
	return id
}
