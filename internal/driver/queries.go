package driver

const (
	CreateCaseQuery = `
		CREATE (c:Case {
			id: $id,
			title: $title,
			description: $description,
			status: 'draft',
			created_at: datetime(),
			updated_at: datetime()
		})
		RETURN c.id AS id, c.title AS title, c.description AS description, c.status AS status
	`

	GetCaseQuery = `
		MATCH (c:Case {id: $id})
		RETURN c.id AS id, c.title AS title, c.description AS description, c.status AS status
	`

	ListCasesQuery = `
		MATCH (c:Case)
		RETURN c.id AS id, c.title AS title, c.description AS description, c.status AS status
		ORDER BY c.created_at DESC
	`

	UpdateCaseStatusQuery = `
		MATCH (c:Case {id: $id})
		SET c.status = $status, c.updated_at = datetime()
		RETURN c.id AS id, c.title AS title, c.description AS description, c.status AS status
	`

	DeleteCaseQuery = `
		MATCH (c:Case {id: $id})
		OPTIONAL MATCH (c)<-[:BELONGS_TO]-(p:Person)
		DETACH DELETE c, p
	`

	SavePersonQuery = `
		MATCH (c:Case {id: $case_id})
		MERGE (p:Person {id: $id})
		SET p.case_id = $case_id,
			p.name = $name,
			p.is_alive = $is_alive,
			p.is_decedent = $is_decedent,
			p.birth_date = $birth_date,
			p.death_date = $death_date,
			p.died_before_division = $died_before_division
		MERGE (p)-[:BELONGS_TO]->(c)
		RETURN p.id AS id
	`

	GetPersonsByCaseQuery = `
		MATCH (p:Person)-[:BELONGS_TO]->(c:Case {id: $case_id})
		RETURN p.id AS id, p.name AS name, p.is_alive AS is_alive,
			p.is_decedent AS is_decedent, p.birth_date AS birth_date,
			p.death_date AS death_date, p.died_before_division AS died_before_division
		ORDER BY p.name
	`

	GetRelationshipsByCaseQuery = `
		MATCH (a:Person)-[r]->(b:Person)
		WHERE a.case_id = $case_id AND b.case_id = $case_id
			AND type(r) IN ['CHILD_OF', 'SPOUSE_OF', 'SIBLING_OF', 'RENOUNCED', 'DISQUALIFIED', 'DISINHERITED']
		RETURN a.id AS from_id, b.id AS to_id, type(r) AS type,
			r.blood_type AS blood_type, r.is_current AS is_current
	`
)

// Relationship types are baked into the Cypher because relationship types
// cannot be parameterized; SaveRelationshipQuery returns the query for a
// known type and refuses anything else.
var relationshipQueries = map[string]string{
	"CHILD_OF": `
		MATCH (a:Person {id: $from_id}), (b:Person {id: $to_id})
		MERGE (a)-[r:CHILD_OF]->(b)
		SET r.is_biological = coalesce($is_biological, true)
		RETURN type(r) AS type
	`,
	"SPOUSE_OF": `
		MATCH (a:Person {id: $from_id}), (b:Person {id: $to_id})
		MERGE (a)-[r:SPOUSE_OF]->(b)
		SET r.is_current = coalesce($is_current, true)
		RETURN type(r) AS type
	`,
	"SIBLING_OF": `
		MATCH (a:Person {id: $from_id}), (b:Person {id: $to_id})
		MERGE (a)-[r:SIBLING_OF]->(b)
		SET r.blood_type = coalesce($blood_type, 'full')
		RETURN type(r) AS type
	`,
	"RENOUNCED": `
		MATCH (a:Person {id: $from_id}), (b:Person {id: $to_id})
		MERGE (a)-[r:RENOUNCED]->(b)
		RETURN type(r) AS type
	`,
	"DISQUALIFIED": `
		MATCH (a:Person {id: $from_id}), (b:Person {id: $to_id})
		MERGE (a)-[r:DISQUALIFIED]->(b)
		RETURN type(r) AS type
	`,
	"DISINHERITED": `
		MATCH (a:Person {id: $from_id}), (b:Person {id: $to_id})
		MERGE (a)-[r:DISINHERITED]->(b)
		RETURN type(r) AS type
	`,
}

func SaveRelationshipQuery(relType string) (string, bool) {
	q, ok := relationshipQueries[relType]
	return q, ok
}
