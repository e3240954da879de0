package config

// NSQ topic names shared between the producer side (batch submission)
// and the worker consumers.
const (
	TopicIngestDocument = "ingest.document"
	TopicIngestEmbed    = "ingest.embed"
)
