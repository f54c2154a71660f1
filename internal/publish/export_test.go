package publish

// NewKafkaPublisherWithWriter exposes the writer seam to the external tests.
var NewKafkaPublisherWithWriter = newKafkaPublisher

// MessageWriter is the exported alias of the writer seam.
type MessageWriter = messageWriter
