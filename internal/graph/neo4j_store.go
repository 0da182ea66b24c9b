package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jRunner is the part of database.Neo4jClient the store needs
type Neo4jRunner interface {
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	ExecuteWrite(ctx context.Context, query string, params map[string]any) error
	ExecuteWriteTransaction(ctx context.Context, work func(neo4j.ManagedTransaction) (any, error)) (any, error)
}

// Neo4jStore keeps edges as (:User)-[:FOLLOWS]->(:User) relationships
type Neo4jStore struct {
	client Neo4jRunner
}

var _ Store = (*Neo4jStore)(nil)

func NewNeo4jStore(client Neo4jRunner) *Neo4jStore {
	return &Neo4jStore{client: client}
}

// EnsureSchema creates the uniqueness constraint on user ids
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	return s.client.ExecuteWrite(ctx,
		"CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE", nil)
}

func (s *Neo4jStore) Toggle(ctx context.Context, follower, followee uuid.UUID) (bool, error) {
	params := map[string]any{
		"follower": follower.String(),
		"followee": followee.String(),
	}

	result, err := s.client.ExecuteWriteTransaction(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			OPTIONAL MATCH (:User {id: $follower})-[r:FOLLOWS]->(:User {id: $followee})
			DELETE r
			RETURN count(r) AS removed`, params)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		removed, _, err := neo4j.GetRecordValue[int64](record, "removed")
		if err != nil {
			return nil, err
		}
		if removed > 0 {
			return false, nil
		}

		_, err = tx.Run(ctx, `
			MERGE (a:User {id: $follower})
			MERGE (b:User {id: $followee})
			MERGE (a)-[r:FOLLOWS]->(b)
			ON CREATE SET r.created_at = datetime()`, params)
		if err != nil {
			return nil, err
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}

	following, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("unexpected toggle result %T", result)
	}
	return following, nil
}

func (s *Neo4jStore) IsFollowing(ctx context.Context, follower, followee uuid.UUID) (bool, error) {
	rows, err := s.client.ExecuteRead(ctx, `
		MATCH (:User {id: $follower})-[r:FOLLOWS]->(:User {id: $followee})
		RETURN count(r) AS n`, map[string]any{
		"follower": follower.String(),
		"followee": followee.String(),
	})
	if err != nil {
		return false, err
	}
	return countFrom(rows, "n") > 0, nil
}

func (s *Neo4jStore) Followers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error) {
	return s.page(ctx,
		"MATCH (other:User)-[r:FOLLOWS]->(:User {id: $id})",
		userID, offset, limit)
}

func (s *Neo4jStore) Following(ctx context.Context, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error) {
	return s.page(ctx,
		"MATCH (:User {id: $id})-[r:FOLLOWS]->(other:User)",
		userID, offset, limit)
}

func (s *Neo4jStore) page(ctx context.Context, match string, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error) {
	params := map[string]any{
		"id":    userID.String(),
		"skip":  int64(offset),
		"limit": int64(limit),
	}

	countRows, err := s.client.ExecuteRead(ctx, match+" RETURN count(r) AS n", params)
	if err != nil {
		return nil, 0, err
	}
	total := countFrom(countRows, "n")

	rows, err := s.client.ExecuteRead(ctx,
		match+" RETURN other.id AS id ORDER BY r.created_at DESC, other.id SKIP $skip LIMIT $limit", params)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		raw, _ := row["id"].(string)
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid user id %q in graph: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, total, nil
}

func (s *Neo4jStore) Counts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	rows, err := s.client.ExecuteRead(ctx, `
		MATCH (u:User {id: $id})
		RETURN COUNT { (:User)-[:FOLLOWS]->(u) } AS followers,
		       COUNT { (u)-[:FOLLOWS]->(:User) } AS following`,
		map[string]any{"id": userID.String()})
	if err != nil {
		return 0, 0, err
	}
	return countFrom(rows, "followers"), countFrom(rows, "following"), nil
}

func countFrom(rows []map[string]any, key string) int64 {
	if len(rows) == 0 {
		return 0
	}
	n, _ := rows[0][key].(int64)
	return n
}
