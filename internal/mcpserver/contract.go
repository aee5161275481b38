package mcpserver

// SnapshotFormatContract describes the persisted bookmark snapshot format so
// LLM consumers can read or produce it directly.
const SnapshotFormatContract = `# Raido Snapshot Format

The bookmark state is persisted as a single JSON object keyed by absolute
file path. Each value is the file's bookmark list in ascending line order.

## Structure

` + "```" + `json
{
  "/home/user/project/main.go": [
    {"line": 4, "column": 0, "label": ""},
    {"line": 27, "column": 12, "label": "retry loop"}
  ],
  "/home/user/project/util.go": [
    {"line": 3, "column": 0, "label": ""}
  ]
}
` + "```" + `

## Rules

1. **Paths are absolute** and normalized (cleaned, no trailing slash).
2. **Lines and columns are zero-based.** Negative values are invalid and
   discarded on load.
3. **At most one bookmark per line.** Duplicate lines within a file are
   discarded on load, keeping the first.
4. **Entries are sorted by line.** Writers must keep the order; readers
   tolerate unsorted input.
5. **label may be empty** and may be omitted entirely.
6. Files with no bookmarks are omitted from the object.
7. **Encoding** is UTF-8.
`
