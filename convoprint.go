// Package convoprint turns shared chat-transcript pages into normalized
// conversations and renders them to printable PDF documents. Extraction
// runs a multi-stage pipeline: a plain HTTP fetch parsed for an embedded
// structured payload, then for role-tagged markup, and finally a full
// headless-browser render when the static strategies come up empty.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., http/,
// goquery/, rod/).
package convoprint
