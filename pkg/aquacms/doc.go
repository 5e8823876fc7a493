// Package aquacms provides a reusable library for a small two-type content
// management system (news items and achievements) with pluggable repository
// and blob storage backends.
//
// It exposes a single Service interface that orchestrates the publication
// lifecycle (DRAFT/PUBLISHED transitions with a write-once PublishedAt),
// image upload to blob storage, the editor- and public-facing query paths,
// and the tag-based rebuild trigger. Implementations of repositories (memory,
// Postgres) and blob stores (memory, filesystem, S3) are provided under
// subpackages.
//
// Publication Contract
//
// An item's PublishedAt is assigned exactly once, at its first transition to
// PUBLISHED. Unpublishing hides the item from public reads but preserves the
// timestamp, so toggling back to PUBLISHED restores its original position in
// the public ordering. Public queries only ever observe PUBLISHED items and
// report drafts as not found.
package aquacms
