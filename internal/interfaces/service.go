package interfaces

// Service is a transport exposing the application services. Start returns
// once the service is listening, Stop shuts it down gracefully.
type Service interface {
	Start() error
	Stop()
}
