package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trsi/internal/config"
	"trsi/internal/logger"
	"trsi/internal/models"
	"trsi/internal/normalizer"
	"trsi/pkg/metadata"
)

const e2eExport = `{
  "entries": [
    {
      "sys": {"id": "prod1", "contentType": {"sys": {"id": "productions"}}},
      "fields": {
        "title": {"en-US": "Test Production"},
        "type": {"en-US": "Demo"},
        "image": {"en-US": {"sys": {"id": "img1"}}},
        "youTubeUrl": {"en-US": "https://youtu.be/dQw4w9WgXcQ"},
        "credits": {"en-US": [{"name": "Coder", "contribution": "Code"}]}
      },
      "metadata": {"tags": [{"sys": {"id": "demo"}}]}
    },
    {
      "sys": {"id": "prod2", "contentType": {"sys": {"id": "productions"}}},
      "fields": {"type": {"en-US": "Intro"}},
      "metadata": {"tags": []}
    },
    {
      "sys": {"id": "track1", "contentType": {"sys": {"id": "music"}}},
      "fields": {"title": {"en-US": "Tune"}, "type": {"en-US": "Chip"}}
    }
  ],
  "assets": [
    {"sys": {"id": "img1"}, "fields": {"file": {"en-US": {"fileName": "test image.jpg", "url": "//images.ctfassets.net/s/img1/t/test image.jpg"}}}},
    {"sys": {"id": "img2"}, "fields": {"file": {"en-US": {"fileName": "gone.png", "url": "//images.ctfassets.net/s/img2/t/gone.png"}}}}
  ]
}`

type fixture struct {
	cfg  *config.Config
	root string
}

func newFixture(t *testing.T, export string) fixture {
	t.Helper()

	root := t.TempDir()

	cfg := config.Default()
	cfg.BaseDir = root
	cfg.Paths.ImageDest = filepath.Join("dist", "img")
	cfg.Images.Workers = 2
	cfg.ResolvePaths()

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Paths.Export), 0755))
	require.NoError(t, os.WriteFile(cfg.Paths.Export, []byte(export), 0644))

	writeJPEG(t, filepath.Join(cfg.Paths.AssetSource, "space", "img1", "token", "test_image.jpg"), 640, 480)

	return fixture{cfg: cfg, root: root}
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 90}))
}

func runPipeline(t *testing.T, cfg *config.Config) *Summary {
	t.Helper()

	p, err := New(cfg, logger.Discard())
	require.NoError(t, err)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	return summary
}

type production struct {
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Image     *string `json:"image"`
	CardImage *string `json:"card_image"`
	YouTube   string  `json:"youtube"`
	Credits   []struct {
		Name         string `json:"name"`
		Contribution string `json:"contribution"`
	} `json:"credits"`
	Tags []string `json:"tags"`
}

func TestRun_EndToEnd(t *testing.T) {
	fx := newFixture(t, e2eExport)
	summary := runPipeline(t, fx.cfg)

	data, err := os.ReadFile(filepath.Join(fx.cfg.Paths.JSONDest, "productions.json"))
	require.NoError(t, err)

	var doc struct {
		Productions []production `json:"productions"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	// prod2 lacks its title and is dropped.
	require.Len(t, doc.Productions, 1)

	prod := doc.Productions[0]
	assert.Equal(t, "Test Production", prod.Title)
	require.NotNil(t, prod.Image)
	assert.Equal(t, "/img/orig/test image.webp", *prod.Image)
	require.NotNil(t, prod.CardImage)
	assert.Equal(t, "/img/card/test image.webp", *prod.CardImage)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", prod.YouTube)
	require.Len(t, prod.Credits, 1)
	assert.Equal(t, "Coder", prod.Credits[0].Name)
	assert.Equal(t, "Code", prod.Credits[0].Contribution)
	assert.Equal(t, []string{"demo"}, prod.Tags)

	for _, r := range []string{"orig", "card", "post"} {
		assert.FileExists(t, filepath.Join(fx.cfg.Paths.ImageDest, r, "test image.webp"))
	}

	for _, name := range []string{"productions", "members", "graphics", "music", "posts"} {
		assert.FileExists(t, filepath.Join(fx.cfg.Paths.JSONDest, name+".json"))
	}

	assert.Equal(t, 2, summary.Transcode.Assets)
	assert.Equal(t, 3, summary.Transcode.Succeeded)
	assert.Zero(t, summary.Transcode.Failed)
	require.Len(t, summary.Transcode.Missing, 1)
	assert.Equal(t, "img2", summary.Transcode.Missing[0].AssetID)

	assert.Equal(t, 2, summary.TotalItems())
	assert.Equal(t, 1, summary.TotalSkipped())
	assert.NotEmpty(t, summary.RunID)
}

func TestRun_EmptyCategoryWritesEmptyArray(t *testing.T) {
	fx := newFixture(t, e2eExport)
	runPipeline(t, fx.cfg)

	data, err := os.ReadFile(filepath.Join(fx.cfg.Paths.JSONDest, "graphics.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"graphics\": []\n}\n", string(data))
}

func TestRun_Idempotent(t *testing.T) {
	fx := newFixture(t, e2eExport)

	first := runPipeline(t, fx.cfg)
	firstFiles := listFiles(t, fx.cfg.Paths.ImageDest)
	firstJSON := readAll(t, fx.cfg.Paths.JSONDest)

	second := runPipeline(t, fx.cfg)

	assert.Equal(t, firstJSON, readAll(t, fx.cfg.Paths.JSONDest))
	assert.Equal(t, firstFiles, listFiles(t, fx.cfg.Paths.ImageDest))

	for i := range first.Categories {
		assert.Equal(t, first.Categories[i].Hash, second.Categories[i].Hash)
	}

	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_MissingExportIsFatal(t *testing.T) {
	cfg := config.Default()
	cfg.BaseDir = t.TempDir()
	cfg.Paths.ImageDest = filepath.Join("dist", "img")
	cfg.ResolvePaths()

	p, err := New(cfg, logger.Discard())
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.ErrorIs(t, err, models.ErrReadExport)
	assert.NoDirExists(t, cfg.Paths.JSONDest)
}

func TestRun_InvalidExportIsFatal(t *testing.T) {
	fx := newFixture(t, `{"entries": [`)

	p, err := New(fx.cfg, logger.Discard())
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.ErrorIs(t, err, models.ErrDecodeExport)
}

func TestRun_LockHeld(t *testing.T) {
	fx := newFixture(t, e2eExport)

	require.NoError(t, os.MkdirAll(fx.cfg.Paths.JSONDest, 0755))

	held := flock.New(filepath.Join(fx.cfg.Paths.JSONDest, LockFileName))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	p, err := New(fx.cfg, logger.Discard())
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.True(t, errors.Is(err, ErrLocked), "got %v", err)
}

func TestRun_ImageDestUncreatable(t *testing.T) {
	fx := newFixture(t, e2eExport)

	blocker := filepath.Join(fx.root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))
	fx.cfg.Paths.ImageDest = filepath.Join(blocker, "img")

	p, err := New(fx.cfg, logger.Discard())
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.ErrorIs(t, err, ErrCreateDest)
	assert.NoFileExists(t, filepath.Join(fx.cfg.Paths.JSONDest, "productions.json"))
}

func TestRun_JSONDestUncreatable(t *testing.T) {
	fx := newFixture(t, e2eExport)

	blocker := filepath.Join(fx.root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))
	fx.cfg.Paths.JSONDest = filepath.Join(blocker, "data")

	p, err := New(fx.cfg, logger.Discard())
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.ErrorIs(t, err, ErrCreateDest)
	assert.NoDirExists(t, filepath.Join(fx.cfg.Paths.ImageDest, "orig"))
}

func TestRun_ReadOnlyExportDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	fx := newFixture(t, e2eExport)

	exportDir := filepath.Dir(fx.cfg.Paths.Export)
	require.NoError(t, os.Chmod(exportDir, 0555))
	t.Cleanup(func() { _ = os.Chmod(exportDir, 0755) })

	summary := runPipeline(t, fx.cfg)
	assert.Equal(t, 2, summary.TotalItems())
	assert.NoFileExists(t, filepath.Join(exportDir, LockFileName))
}

func TestWriteResults_HashMatchesFile(t *testing.T) {
	dir := t.TempDir()
	results := []normalizer.Result{{Category: "posts", Items: []normalizer.Item{{{Key: "title", Value: "A & B"}}}}}

	categories, err := writeResults(dir, results)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	data, err := os.ReadFile(categories[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"posts\": [\n    {\n      \"title\": \"A & B\"\n    }\n  ]\n}\n", string(data))
	assert.Equal(t, metadata.CalculateHash(data), categories[0].Hash)
}

func TestRenderSummary(t *testing.T) {
	fx := newFixture(t, e2eExport)
	summary := runPipeline(t, fx.cfg)

	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, summary))

	out := buf.String()
	assert.Contains(t, out, "productions")
	assert.Contains(t, out, "Skipped entries")
	assert.Contains(t, out, "prod2")
	assert.Contains(t, out, summary.RunID)
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			files = append(files, rel)
		}

		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)

	return files
}

func readAll(t *testing.T, dir string) map[string]string {
	t.Helper()

	contents := map[string]string{}
	for _, name := range listFiles(t, dir) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		contents[name] = string(data)
	}

	return contents
}
