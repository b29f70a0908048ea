package mcpserver

// WorkspaceGuide explains segments, task origins and the outline editor to
// LLM consumers before they add or move tasks.
const WorkspaceGuide = `# noteflow Workspace Guide

## Segments

Every task is filed under exactly one segment:

| key         | label     | use for                                   |
|-------------|-----------|-------------------------------------------|
| today       | Today     | must happen before the day ends           |
| this-week   | This Week | planned for the current week              |
| project     | Project   | part of a longer running piece of work    |
| waiting     | Waiting   | blocked on someone else                   |
| someday     | Someday   | parked, no commitment                     |

Any other segment value is rejected.

## Task origins

- A **standalone** task is created on its own (` + "`" + `add_task` + "`" + ` without ` + "`" + `note_id` + "`" + `).
- A **derived** task is created from a note (` + "`" + `add_task` + "`" + ` with ` + "`" + `note_id` + "`" + `). It keeps that
  origin for life, shows the note's current subject, and is deleted when the note is deleted.
- Deleting a task never touches its note.

` + "`" + `list_tasks` + "`" + ` returns standalone tasks first, then derived ones, each group in creation order.

## Outline editing

Note bodies are bullet outlines. Bullets are "• " and one level of nesting is two spaces.
` + "`" + `outline_key` + "`" + ` applies one key to a buffer and returns the new text and cursor
(cursor positions count characters, not bytes):

- ` + "`" + `indent` + "`" + ` (Tab) inserts two spaces at the cursor.
- ` + "`" + `outdent` + "`" + ` (Shift+Tab) removes two leading spaces from the current line.
- ` + "`" + `newline` + "`" + ` (Enter) continues the bullet at the same depth; on an empty bullet it
  ends the list instead.

## Search

` + "`" + `search` + "`" + ` ranks notes and tasks by cosine similarity of word counts and returns at most
12 hits. Matching ignores case; only ASCII letters, digits and whitespace are kept, so
"follow-up" is read as "followup".
`
