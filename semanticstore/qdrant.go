// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package semanticstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/pkg/errors"
)

// QdrantStore is a Store backed by a local Qdrant instance, for
// installs that want persistent, restart-surviving vector search
// instead of MemoryStore's in-process index.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
	embedder       Embedder

	// metadata, if set, mirrors every indexed Document's metadata into
	// Redis; Clear removes the session's records there too after it has
	// deleted the matching points from Qdrant.
	metadata *RedisMetadataStore
}

// QdrantConfig configures a QdrantStore.
type QdrantConfig struct {
	Host           string
	Port           int
	CollectionName string

	// InitializeSchema creates CollectionName if it does not already
	// exist, sized to the Embedder's dimensionality.
	InitializeSchema bool

	// Metadata, if set, backs this store with a RedisMetadataStore -
	// the "metadata_backend: redis" install option.
	Metadata *RedisMetadataConfig
}

// NewQdrantStore connects to a Qdrant instance and, if configured,
// ensures the target collection exists.
func NewQdrantStore(ctx context.Context, cfg QdrantConfig, embedder Embedder) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, errors.ErrStoreUnavailable.Wrap(err)
	}

	store := &QdrantStore{
		client:         client,
		collectionName: cfg.CollectionName,
		embedder:       embedder,
	}

	if cfg.Metadata != nil {
		meta, err := NewRedisMetadataStore(*cfg.Metadata)
		if err != nil {
			return nil, err
		}
		store.metadata = meta
	}

	if cfg.InitializeSchema {
		if err := store.ensureCollection(ctx); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return errors.ErrStoreUnavailable.Wrap(err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.embedder.Dimensions()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return errors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

func valueMap(meta map[string]any) (map[string]*qdrant.Value, error) {
	payload := make(map[string]*qdrant.Value, len(meta))
	for k, v := range meta {
		val, err := qdrant.NewValue(v)
		if err != nil {
			return nil, fmt.Errorf("semanticstore: failed to convert metadata field %q: %w", k, err)
		}
		payload[k] = val
	}
	return payload, nil
}

func (s *QdrantStore) upsert(ctx context.Context, docs []Document) error {
	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		payload, err := valueMap(doc.Metadata)
		if err != nil {
			return errors.ErrStoreUnavailable.Wrap(err)
		}
		// The canonical text rides along in the payload so retrieved
		// points can cite it as a source without a second lookup.
		textVal, err := qdrant.NewValue(doc.Text)
		if err != nil {
			return errors.ErrStoreUnavailable.Wrap(err)
		}
		payload["text"] = textVal

		id := doc.ID
		if id == "" {
			id = uuid.NewString()
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(doc.Vector...),
			Payload: payload,
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
	})
	if err != nil {
		return errors.ErrStoreUnavailable.Wrap(err)
	}

	if s.metadata != nil {
		for _, doc := range docs {
			if err := s.metadata.Put(ctx, doc.Tag.SessionID, doc); err != nil {
				return errors.ErrStoreUnavailable.Wrap(err)
			}
		}
	}
	return nil
}

// IndexTransactions embeds and upserts one point per transaction.
func (s *QdrantStore) IndexTransactions(ctx context.Context, tag model.WorkspaceTag, txs []model.Transaction) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	docs := make([]Document, 0, len(txs))
	for _, tx := range txs {
		text := tx.CanonicalText()
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return errors.ErrStoreUnavailable.Wrap(err)
		}

		category := ""
		if tx.Category != nil {
			category = *tx.Category
		}

		docs = append(docs, Document{
			// Qdrant point IDs must be a UUID or an unsigned integer, so
			// the transaction's content-addressed key is rehashed into
			// UUID form rather than stored verbatim; it stays
			// deterministic across re-indexing the same transaction.
			ID:     uuid.NewSHA1(uuid.Nil, []byte(tx.Key())).String(),
			Tag:    tag,
			Text:   text,
			Vector: vec,
			Metadata: map[string]any{
				"session_id":  tag.SessionID,
				"upload_id":   tag.UploadID,
				"doc_type":    "transaction",
				"date":        tx.Date.Format("2006-01-02"),
				"amount":      model.SignedAmount(tx),
				"type":        string(tx.Direction),
				"category":    category,
				"description": tx.Description,
			},
		})
	}

	return s.upsert(ctx, docs)
}

// IndexFinancialData embeds and upserts one point per line item.
func (s *QdrantStore) IndexFinancialData(ctx context.Context, tag model.WorkspaceTag, statement model.FinancialStatement) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	docs := make([]Document, 0)
	for _, li := range statement.Flatten() {
		text := li.CanonicalText(statement.Company, statement.CurrentPeriod)
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return errors.ErrStoreUnavailable.Wrap(err)
		}

		docType := "line-item"
		if li.Kind == model.Ratio {
			docType = "ratio"
		}

		docs = append(docs, Document{
			ID:     uuid.NewString(),
			Tag:    tag,
			Text:   text,
			Vector: vec,
			Metadata: map[string]any{
				"session_id":     tag.SessionID,
				"upload_id":      tag.UploadID,
				"doc_type":       docType,
				"statement_kind": string(li.Kind),
				"section":        li.Section,
				"name":           li.Name,
				"current":        li.Current,
				"prior":          li.Prior,
				"percent_change": li.PercentChange,
				"company":        statement.Company,
				"current_period": statement.CurrentPeriod,
				"prior_period":   statement.PriorPeriod,
			},
		})
	}

	return s.upsert(ctx, docs)
}

// Search embeds query.Text and runs a filtered nearest-neighbor query
// against Qdrant, scoped to query.UploadID.
func (s *QdrantStore) Search(ctx context.Context, query SearchQuery) ([]Document, error) {
	if query.UploadID == "" {
		return nil, errors.ErrInvalidQuery.WithMessage("search requires upload_id")
	}
	n := query.N
	if n <= 0 {
		n = 10
	}

	vec, err := s.embedder.Embed(ctx, query.Text)
	if err != nil {
		return nil, errors.ErrStoreUnavailable.Wrap(err)
	}

	conditions := []*qdrant.Condition{
		qdrant.NewMatchKeyword("upload_id", query.UploadID),
	}
	if query.Type != "" {
		conditions = append(conditions, qdrant.NewMatchKeyword("type", query.Type))
	}

	limit := uint64(n)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vec...),
		Filter:         &qdrant.Filter{Must: conditions},
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, errors.ErrStoreUnavailable.Wrap(err)
	}

	docs := make([]Document, 0, len(points))
	for _, p := range points {
		meta := payloadToMetadata(p.GetPayload())
		text, _ := meta["text"].(string)
		delete(meta, "text")
		docs = append(docs, Document{
			ID:       p.GetId().GetUuid(),
			Text:     text,
			Metadata: meta,
		})
	}

	// Re-apply amount/date filters locally: Qdrant's payload match
	// conditions cover equality well but this store keeps range
	// filtering in Go so MemoryStore and QdrantStore share identical
	// filter semantics.
	filtered := make([]Document, 0, len(docs))
	for _, d := range docs {
		if matchesFilters(d, query) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func payloadToMetadata(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = qdrantValueToAny(v)
	}
	return out
}

func qdrantValueToAny(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.Kind.(type) {
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return float64(kind.IntegerValue)
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}

// Clear removes every point tagged with sessionID by reading then
// filtering: it scrolls the collection's points, selects the matching
// IDs in memory, and deletes that explicit ID set, rather than
// trusting a single filtered-delete call to behave identically across
// Qdrant versions.
func (s *QdrantStore) Clear(ctx context.Context, sessionID string) error {
	limit := uint32(clearScrollPageSize)
	var offset *qdrant.PointId

	for {
		points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collectionName,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return errors.ErrStoreUnavailable.Wrap(err)
		}
		if len(points) == 0 {
			break
		}

		ids := make([]*qdrant.PointId, 0, len(points))
		for _, p := range points {
			if sessionID != "" {
				meta := payloadToMetadata(p.GetPayload())
				if sid, _ := meta["session_id"].(string); sid != sessionID {
					continue
				}
			}
			ids = append(ids, p.GetId())
		}

		if len(ids) > 0 {
			_, err = s.client.Delete(ctx, &qdrant.DeletePoints{
				CollectionName: s.collectionName,
				Points:         qdrant.NewPointsSelector(ids...),
			})
			if err != nil {
				return errors.ErrStoreUnavailable.Wrap(err)
			}
		}

		if len(points) < clearScrollPageSize {
			break
		}
		offset = points[len(points)-1].GetId()
	}

	if s.metadata != nil && sessionID != "" {
		if err := s.metadata.Clear(ctx, sessionID); err != nil {
			return errors.ErrStoreUnavailable.Wrap(err)
		}
	}
	return nil
}

// clearScrollPageSize bounds how many points one Clear scroll page
// reads at a time.
const clearScrollPageSize = 1024
