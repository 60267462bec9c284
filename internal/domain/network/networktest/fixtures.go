package networktest

import "github.com/baq-transit/service-routing/internal/domain/network"

// Query points around Barranquilla used across the test suites.
var (
	Esthercita  = network.Coordinate{Lat: 10.9915344, Lon: -74.8026641}
	BuenosAires = network.Coordinate{Lat: 10.9415782, Lon: -74.800063}
	Uninorte    = network.Coordinate{Lat: 11.0177671, Lon: -74.8497828}
	PachoGalan  = network.Coordinate{Lat: 10.9154516, Lon: -74.799618}
	Ciudadela   = network.Coordinate{Lat: 10.9292644, Lon: -74.8059385}
)

// Sample is a small slice of the Transmetro network.
type Sample struct {
	*Network

	Esthercita  network.Station // 205
	BuenosAires network.Station // 104
	JoeArroyo   network.Station // 206
	PachoGalan  network.Station // 101
	Ciudadela   network.Station // 103

	Puerta7     network.Stop // U30, sequence 5
	Puerta2     network.Stop // U30, sequence 4
	VeinteJulio network.Stop // A8-1, sequence 9

	R1  network.Route // trunk, transmetro id 2
	S1  network.Route // trunk, transmetro id 4
	R2  network.Route // trunk, transmetro id 6
	R10 network.Route // express trunk, transmetro id 10
	U30 network.Route // feeder to Joe Arroyo, transmetro id 37
	A8  network.Route // feeder to Ciudadela, transmetro id 28
}

// NewSample builds the sample network. Uninorte and Ciudadela are only served
// by feeder stops within 500 m; Esthercita, Buenos Aires and Pacho Galán are
// only served by stations.
func NewSample() *Sample {
	n := New()
	s := &Sample{Network: n}

	s.R1 = n.AddRoute(2, "R1", network.RouteKindTroncal)
	s.S1 = n.AddRoute(4, "S1", network.RouteKindTroncal)
	s.R2 = n.AddRoute(6, "R2", network.RouteKindTroncal)
	s.R10 = n.AddRoute(10, "R10", network.RouteKindTroncalExpress)
	s.U30 = n.AddRoute(37, "U30", network.RouteKindAlimentador)
	s.A8 = n.AddRoute(28, "A8-1", network.RouteKindAlimentador)

	s.Esthercita = n.AddStation(205, "Esthercita Forero", 10.9918, -74.8030)
	s.BuenosAires = n.AddStation(104, "Buenos Aires", 10.9412, -74.8004)
	s.JoeArroyo = n.AddStation(206, "Joe Arroyo", 10.9995, -74.8165)
	s.PachoGalan = n.AddStation(101, "Pacho Galán", 10.9150, -74.7999)
	s.Ciudadela = n.AddStation(103, "Ciudadela", 10.9345, -74.8012)

	s.Puerta7 = n.AddStop("Uninorte Puerta 7", s.U30, s.JoeArroyo, 5, 14, 11.0181, -74.8494)
	s.Puerta2 = n.AddStop("Uninorte Puerta 2", s.U30, s.JoeArroyo, 4, 15, 11.0172, -74.8503)
	s.VeinteJulio = n.AddStop("Ciudadela 20 de Julio", s.A8, s.Ciudadela, 9, 6, 10.9296, -74.8056)

	n.Connect(s.Esthercita, s.BuenosAires, s.S1, 7)
	n.Connect(s.JoeArroyo, s.PachoGalan, s.R2, 9)
	n.Connect(s.JoeArroyo, s.PachoGalan, s.R10, 4)
	n.Connect(s.PachoGalan, s.JoeArroyo, s.R1, 9)
	n.Connect(s.JoeArroyo, s.Ciudadela, s.R2, 5)

	return s
}
