package grant

const (
	SelectGrant = `
		SELECT file_id::text, shared_with_email, shared_by::text, created_at
		FROM file_access
		WHERE file_id = $1 AND shared_with_email = $2
	`
	SelectFileGrants = `
		SELECT file_id::text, shared_with_email, shared_by::text, created_at
		FROM file_access
		WHERE file_id = $1 AND shared_by = $2
		ORDER BY created_at
	`
	// InsertGrantIfOwner inserts only when $3 owns file $1 and always returns
	// exactly one row telling ownership apart from a duplicate.
	InsertGrantIfOwner = `
		WITH owned AS (
			SELECT id FROM files WHERE id = $1 AND owner_id = $3
		), ins AS (
			INSERT INTO file_access (file_id, shared_with_email, shared_by)
			SELECT id, $2, $3 FROM owned
			ON CONFLICT (file_id, shared_with_email) DO NOTHING
			RETURNING file_id, shared_with_email, shared_by, created_at
		)
		SELECT EXISTS (SELECT 1 FROM owned),
		       ins.file_id::text, ins.shared_with_email, ins.shared_by::text, ins.created_at
		FROM (SELECT 1) AS one
		LEFT JOIN ins ON TRUE
	`
	DeleteGrantByOwner = `
		DELETE FROM file_access
		WHERE file_id = $1 AND shared_with_email = $2 AND shared_by = $3
	`
)
