package cases

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MockDriver records the last executed query and replays canned results
// keyed by query string, falling back to a default result.
type MockDriver struct {
	QueryExecuted string
	QueryParams   map[string]interface{}
	Results       map[string]neo4j.EagerResult
	MockResult    neo4j.EagerResult
	Err           error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if res, ok := m.Results[query]; ok {
		return res, nil
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func record(keys []string, values []interface{}) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func personRecord(id, name string, isAlive, isDecedent bool) *neo4j.Record {
	return record(
		[]string{"id", "name", "is_alive", "is_decedent", "birth_date", "death_date", "died_before_division"},
		[]interface{}{id, name, isAlive, isDecedent, nil, nil, false},
	)
}

func relationshipRecord(fromID, toID, relType string) *neo4j.Record {
	return record(
		[]string{"from_id", "to_id", "type", "blood_type", "is_current"},
		[]interface{}{fromID, toID, relType, nil, true},
	)
}
