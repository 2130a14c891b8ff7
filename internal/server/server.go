package server

// Server объединяет HTTP серверы отдельных сущностей
type Server struct {
	NegotiationServer
	BookingServer
}

func NewServer(
	negotiationServer NegotiationServer,
	bookingServer BookingServer,
) Server {
	return Server{
		NegotiationServer: negotiationServer,
		BookingServer:     bookingServer,
	}
}
