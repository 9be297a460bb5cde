package assetstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/config"
)

func TestNewKey(t *testing.T) {
	key, err := NewKey("brands/", "Optimum Nutrition Logo.PNG")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, "brands/"), key)
	require.True(t, strings.HasSuffix(key, "-optimum-nutrition-logo.png"), key)

	other, err := NewKey("brands", "Optimum Nutrition Logo.PNG")
	require.NoError(t, err)
	require.NotEqual(t, key, other)

	key, err = NewKey("ads", "../../etc/passwd")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, "ads/"))
	require.NotContains(t, key, "..")
}

func TestKeyFromBase(t *testing.T) {
	require.Equal(t, "brands/a b.png", keyFromBase("http://host/assets/", "http://host/assets/brands/a%20b.png"))
	require.Equal(t, "flavors/vanilla.png",
		keyFromBase("http://host/assets/", "https://firebasestorage.googleapis.com/v0/b/vm.appspot.com/o/flavors%2Fvanilla.png?alt=media&token=abc"))
	require.Equal(t, "not a url at all", keyFromBase("http://host/assets/", "not a url at all"))
}

func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	ref, err := s.Put(ctx, "brands/logo.png", strings.NewReader("png-bytes"), PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, "brands/logo.png", ref.Key)
	require.Equal(t, int64(9), ref.Size)
	require.Equal(t, "brands/logo.png", s.KeyForURL(ref.URL))

	_, err = s.Put(ctx, "brands/logo.png", strings.NewReader("again"), PutOptions{})
	require.ErrorIs(t, err, ErrExists)

	require.NoError(t, DeleteURL(ctx, s, ref.URL))
	require.ErrorIs(t, s.Delete(ctx, "brands/logo.png"), ErrNotFound)
	require.ErrorIs(t, DeleteURL(ctx, s, "https://elsewhere.example.com/x.png"), ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFSStore(t *testing.T) {
	root := t.TempDir()
	s, err := NewFSStore(root, "http://localhost:1352/assets")
	require.NoError(t, err)
	storeContract(t, s)

	ref, err := s.Put(context.Background(), "ads/promo.mp4", strings.NewReader("video"), PutOptions{ContentType: "video/mp4"})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:1352/assets/ads/promo.mp4", ref.URL)

	data, err := os.ReadFile(filepath.Join(root, "ads", "promo.mp4"))
	require.NoError(t, err)
	require.Equal(t, "video", string(data))
	require.FileExists(t, filepath.Join(root, "ads", "promo.mp4.meta"))
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.NewMapConfig(map[string]string{"VMC_ASSET_DRIVER": "memory"}))
	require.NoError(t, err)
	require.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, config.NewMapConfig(map[string]string{"VMC_ASSET_DRIVER": "fs", "VMC_ASSET_FS_ROOT": t.TempDir()}))
	require.NoError(t, err)
	require.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(ctx, config.NewMapConfig(map[string]string{"VMC_ASSET_DRIVER": "s3"}))
	require.Error(t, err)

	_, err = Open(ctx, config.NewMapConfig(map[string]string{"VMC_ASSET_DRIVER": "ftp"}))
	require.Error(t, err)
}

func TestRecordingStoreFailures(t *testing.T) {
	s := NewRecordingStore(NewMemoryStore())
	s.FailDelete("", os.ErrPermission)

	_, err := s.Put(context.Background(), "a", strings.NewReader("x"), PutOptions{})
	require.NoError(t, err)
	require.ErrorIs(t, s.Delete(context.Background(), "a"), os.ErrPermission)
	require.Equal(t, []string{"a"}, s.Puts())
	require.Equal(t, []string{"a"}, s.Deletes())
}
