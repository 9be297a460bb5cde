package assetstore

import (
	"context"
	"fmt"

	"github.com/vendingops/vmconsole/pkg/config"
)

// Open builds the asset store selected by VMC_ASSET_DRIVER.
func Open(ctx context.Context, c config.Configer) (Store, error) {
	switch driver := Driver(c.GetKeyWithDefault("VMC_ASSET_DRIVER", string(DriverFilesystem))); driver {
	case DriverMemory:
		return NewMemoryStore(), nil

	case DriverFilesystem:
		return NewFSStore(
			c.GetKeyWithDefault("VMC_ASSET_FS_ROOT", "assets"),
			c.GetKeyWithDefault("VMC_ASSET_BASE_URL", fmt.Sprintf("http://localhost:%d/assets/", c.GetIntKeyWithDefault("VMC_PORT", 1352))),
		)

	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    c.GetKey("VMC_ASSET_S3_BUCKET"),
			Region:    c.GetKey("VMC_ASSET_S3_REGION"),
			Endpoint:  c.GetKey("VMC_ASSET_S3_ENDPOINT"),
			PathStyle: c.GetBoolKeyWithDefault("VMC_ASSET_S3_PATH_STYLE", false),
			PublicURL: c.GetKey("VMC_ASSET_BASE_URL"),
		})

	default:
		return nil, fmt.Errorf("unknown asset driver %q", driver)
	}
}
