// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	saveLocalSession = `
		INSERT INTO local_session (id, session_id, username, saved_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			session_id = excluded.session_id,
			username   = excluded.username,
			saved_at   = excluded.saved_at;`

	loadLocalSession = `
		SELECT session_id, username, saved_at
		FROM local_session
		WHERE id = 1;`

	clearLocalSession = `DELETE FROM local_session;`
)
