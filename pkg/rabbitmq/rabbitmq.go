package rabbitmq

// Queue topology shared by the publisher and the consumer. One queue
// carries one message per submitted item; the worker pool size bounds
// how many transcriptions run at once.
const (
	exchangeName = "subtitles_exchange"
	queueName    = "subtitle_jobs_queue"
	routingKey   = "subtitle.job.request"
)
