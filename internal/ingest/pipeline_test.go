package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"storefront-ai/internal/ingest"
	ingestmocks "storefront-ai/internal/ingest/mocks"
	"storefront-ai/internal/storage"
	storagemocks "storefront-ai/internal/storage/mocks"
	"storefront-ai/internal/vectorstore"
	vsmocks "storefront-ai/internal/vectorstore/mocks"
)

const docBody = "This section describes the product in enough detail to form a full chunk of indexable content for retrieval."

type pipelineFixture struct {
	docs     *storagemocks.MockDocumentStore
	embedder *ingestmocks.MockEmbedder
	index    *vsmocks.MockUpserter
}

func newPipelineFixture(t *testing.T) (*ingest.Pipeline, *pipelineFixture) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &pipelineFixture{
		docs:     storagemocks.NewMockDocumentStore(ctrl),
		embedder: ingestmocks.NewMockEmbedder(ctrl),
		index:    vsmocks.NewMockUpserter(ctrl),
	}
	return ingest.NewPipeline(f.docs, f.embedder, f.index, 2, 100), f
}

func stubEmbeddings(texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors
}

func TestPipelineRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "products/mugs.md", "# Mugs\n\n"+docBody)
	writeFile(t, root, "manuals/kettle.md", "# Kettle\n\n"+docBody)

	pipeline, f := newPipelineFixture(t)

	// No prior documents for either source.
	f.docs.EXPECT().
		FetchFiltered(gomock.Any(), gomock.Any(), 0).
		Return(nil, nil).
		Times(2)

	f.embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			return stubEmbeddings(texts), nil
		})

	var inserted []storage.DocumentRow
	f.docs.EXPECT().
		InsertBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, batch []storage.DocumentRow) error {
			inserted = append(inserted, batch...)
			return nil
		})

	var upserted []vectorstore.Point
	f.index.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, points []vectorstore.Point) error {
			upserted = append(upserted, points...)
			return nil
		})

	stats, err := pipeline.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.FilesScanned != 2 || stats.FilesProcessed != 2 || stats.FilesFailed != 0 {
		t.Errorf("unexpected file stats: %+v", stats)
	}
	if stats.ChunksIndexed != len(inserted) {
		t.Errorf("ChunksIndexed = %d, inserted = %d", stats.ChunksIndexed, len(inserted))
	}
	if len(inserted) != len(upserted) {
		t.Errorf("row store and index diverge: %d vs %d", len(inserted), len(upserted))
	}

	for _, row := range inserted {
		if row.Embedding == "" || !strings.HasPrefix(row.Embedding, "[") {
			t.Errorf("row %s missing JSON embedding: %q", row.ID, row.Embedding)
		}
		if !row.IsActive {
			t.Errorf("row %s not active", row.ID)
		}
		if row.Source != "products/mugs.md" && row.Source != "manuals/kettle.md" {
			t.Errorf("unexpected source %q", row.Source)
		}
	}

	for _, point := range upserted {
		if point.Meta["content"] == "" {
			t.Errorf("point %s missing content payload", point.ID)
		}
		if point.Meta["is_active"] != true {
			t.Errorf("point %s not active", point.ID)
		}
	}
}

func TestPipelineReplacesExistingSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "products/mugs.md", "# Mugs\n\n"+docBody)

	pipeline, f := newPipelineFixture(t)

	f.docs.EXPECT().
		FetchFiltered(gomock.Any(), map[string]any{"source": "products/mugs.md"}, 0).
		Return([]storage.DocumentRow{{ID: "old-1"}, {ID: "old-2"}}, nil)
	f.index.EXPECT().
		Delete(gomock.Any(), []string{"old-1", "old-2"}).
		Return(nil)
	f.docs.EXPECT().
		DeleteBySource(gomock.Any(), "products/mugs.md").
		Return(nil)

	f.embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			return stubEmbeddings(texts), nil
		})
	f.docs.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)
	f.index.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	stats, err := pipeline.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", stats.FilesProcessed)
	}
}

func TestPipelineBatchFailureContinues(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "# A\n\n"+docBody)
	writeFile(t, root, "b.md", "# B\n\n"+docBody)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	docs := storagemocks.NewMockDocumentStore(ctrl)
	embedder := ingestmocks.NewMockEmbedder(ctrl)
	index := vsmocks.NewMockUpserter(ctrl)

	// Batch size 1 forces one batch per file.
	pipeline := ingest.NewPipeline(docs, embedder, index, 1, 1)

	docs.EXPECT().FetchFiltered(gomock.Any(), gomock.Any(), 0).Return(nil, nil).Times(2)

	first := embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("embedding service down"))
	embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			return stubEmbeddings(texts), nil
		}).
		After(first)

	docs.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)
	index.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	stats, err := pipeline.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.BatchesFailed != 1 {
		t.Errorf("BatchesFailed = %d, want 1", stats.BatchesFailed)
	}
	if stats.BatchesUploaded != 1 {
		t.Errorf("BatchesUploaded = %d, want 1", stats.BatchesUploaded)
	}
	if stats.ChunksIndexed != 1 {
		t.Errorf("ChunksIndexed = %d, want 1", stats.ChunksIndexed)
	}
}

func TestPipelineFileFailureContinues(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.md", "# Good\n\n"+docBody)
	writeFile(t, root, "bad.md", "# Bad\n\n"+docBody)

	pipeline, f := newPipelineFixture(t)

	// Stale cleanup fails for one source; the other still ingests.
	f.docs.EXPECT().
		FetchFiltered(gomock.Any(), gomock.Any(), 0).
		DoAndReturn(func(_ context.Context, filter map[string]any, _ int) ([]storage.DocumentRow, error) {
			if filter["source"] == "bad.md" {
				return nil, errors.New("table locked")
			}
			return nil, nil
		}).
		Times(2)

	f.embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			return stubEmbeddings(texts), nil
		})
	f.docs.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)
	f.index.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	stats, err := pipeline.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.FilesProcessed != 1 || stats.FilesFailed != 1 {
		t.Errorf("unexpected stats: processed %d, failed %d", stats.FilesProcessed, stats.FilesFailed)
	}
	if len(stats.Errors) != 1 || stats.Errors[0].Path != "bad.md" {
		t.Errorf("unexpected errors: %+v", stats.Errors)
	}
}

func TestPipelineCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "# A\n\n"+docBody)

	pipeline, _ := newPipelineFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pipeline.Run(ctx, root); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
