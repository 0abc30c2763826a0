package file

const (
	columns = `id::text, owner_id::text, name, storage_path, content_type, size_bytes, is_public, share_token, created_at`

	SelectFileByID = `
		SELECT ` + columns + `
		FROM files
		WHERE id = $1
	`
	SelectFileByOwnerAndID = `
		SELECT ` + columns + `
		FROM files
		WHERE id = $1 AND owner_id = $2
	`
	SelectPublicFileByID = `
		SELECT ` + columns + `
		FROM files
		WHERE id = $1 AND is_public = TRUE
	`
	// the is_public filter makes a disabled link indistinguishable from an unknown one
	SelectFileByPublicToken = `
		SELECT ` + columns + `
		FROM files
		WHERE share_token = $1 AND is_public = TRUE
	`
	SelectFileByOwnerAndPath = `
		SELECT ` + columns + `
		FROM files
		WHERE owner_id = $1 AND storage_path = $2
	`
	SelectFilesSharedWith = `
		SELECT f.id::text, f.owner_id::text, f.name, f.storage_path, f.content_type, f.size_bytes, f.is_public, f.share_token, f.created_at
		FROM files f
		JOIN file_access a ON a.file_id = f.id
		WHERE a.shared_with_email = $1
		ORDER BY f.created_at DESC
	`
	SelectTotalSize = `
		SELECT COALESCE(SUM(size_bytes), 0)::bigint
		FROM files
		WHERE owner_id = $1
	`
	// serializes quota checks per owner until the transaction ends
	LockOwnerForQuota = `
		SELECT uuid
		FROM users
		WHERE uuid = $1
		FOR UPDATE
	`
	InsertFile = `
		INSERT INTO files (owner_id, name, storage_path, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns + `
	`
	RenameFileByOwner = `
		UPDATE files
		SET name = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + columns + `
	`
	DeleteFileByOwner = `
		DELETE FROM files
		WHERE id = $1 AND owner_id = $2
	`
	// an enabled file keeps the token it already has
	EnablePublicLinkByOwner = `
		UPDATE files
		SET is_public = TRUE,
		    share_token = COALESCE(share_token, $3)
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + columns + `
	`
	DisablePublicLinkByOwner = `
		UPDATE files
		SET is_public = FALSE,
		    share_token = NULL
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + columns + `
	`
	RotateShareTokenByOwner = `
		UPDATE files
		SET share_token = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + columns + `
	`
)
