//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/baq-transit/service-routing/internal/application"
	"github.com/baq-transit/service-routing/internal/domain/journey"
	"github.com/baq-transit/service-routing/internal/events"
	"github.com/baq-transit/service-routing/internal/platform/database"
	"github.com/baq-transit/service-routing/internal/platform/kafka"
	"github.com/baq-transit/service-routing/internal/repository"
)

// setupPostGIS starts a PostGIS container, migrates it and returns a connected GORM DB.
func setupPostGIS(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_routing",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostGIS container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostGIS container: %v", err)
		}
	})

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_routing",
		SSLMode:  "disable",
	}
	logger := zap.NewNop()

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostGIS not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), "migrations", logger))
	return db
}

// setupKafka starts a Kafka container and pre-creates the service topics.
func setupKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	// confluent-local supports KRaft natively.
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")
	t.Cleanup(func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, brokers, events.TopicRoutingEvents, events.TopicNetworkEvents)
	return brokers
}

// seeded holds the ids of the rows inserted by seedNetwork.
type seeded struct {
	Stations map[int]uuid.UUID // keyed by station_id
	Routes   map[int]uuid.UUID // keyed by transmetro_id
}

// seedNetwork inserts a slice of the Transmetro network: five stations, six
// routes, three feeder stops and the trunk destinations between them.
func seedNetwork(t *testing.T, db *gorm.DB) seeded {
	t.Helper()
	s := seeded{Stations: map[int]uuid.UUID{}, Routes: map[int]uuid.UUID{}}

	routes := []repository.RouteModel{
		{TransmetroID: 2, Name: "R1", Kind: "troncal"},
		{TransmetroID: 4, Name: "S1", Kind: "troncal"},
		{TransmetroID: 6, Name: "R2", Kind: "troncal"},
		{TransmetroID: 10, Name: "R10", Kind: "troncal-express"},
		{TransmetroID: 37, Name: "U30", Kind: "alimentador"},
		{TransmetroID: 28, Name: "A8-1", Kind: "alimentador"},
	}
	for i := range routes {
		routes[i].ID = uuid.New()
		s.Routes[routes[i].TransmetroID] = routes[i].ID
	}
	require.NoError(t, db.Create(&routes).Error, "failed to seed routes")

	stations := []repository.StationModel{
		{StationID: 205, Name: "Esthercita Forero", Lat: 10.9918, Lon: -74.8030},
		{StationID: 104, Name: "Buenos Aires", Lat: 10.9412, Lon: -74.8004},
		{StationID: 206, Name: "Joe Arroyo", Lat: 10.9995, Lon: -74.8165},
		{StationID: 101, Name: "Pacho Galán", Lat: 10.9150, Lon: -74.7999},
		{StationID: 103, Name: "Ciudadela", Lat: 10.9345, Lon: -74.8012},
	}
	for i := range stations {
		stations[i].ID = uuid.New()
		s.Stations[stations[i].StationID] = stations[i].ID
	}
	require.NoError(t, db.Create(&stations).Error, "failed to seed stations")

	stops := []repository.StopModel{
		{Description: "Uninorte Puerta 7", StopSequence: 5, AmountToArrive: 14, RouteID: s.Routes[37], ParentStationID: s.Stations[206], Lat: 11.0181, Lon: -74.8494},
		{Description: "Uninorte Puerta 2", StopSequence: 4, AmountToArrive: 15, RouteID: s.Routes[37], ParentStationID: s.Stations[206], Lat: 11.0172, Lon: -74.8503},
		{Description: "Ciudadela 20 de Julio", StopSequence: 9, AmountToArrive: 6, RouteID: s.Routes[28], ParentStationID: s.Stations[103], Lat: 10.9296, Lon: -74.8056},
	}
	for i := range stops {
		stops[i].ID = uuid.New()
	}
	require.NoError(t, db.Create(&stops).Error, "failed to seed stops")

	destinations := []repository.StationDestinationModel{
		{StationID: s.Stations[205], DestinationID: s.Stations[104], RouteID: s.Routes[4], AmountToArrive: 7},
		{StationID: s.Stations[206], DestinationID: s.Stations[101], RouteID: s.Routes[6], AmountToArrive: 9, Position: 0},
		{StationID: s.Stations[206], DestinationID: s.Stations[101], RouteID: s.Routes[10], AmountToArrive: 4, Position: 1},
		{StationID: s.Stations[101], DestinationID: s.Stations[206], RouteID: s.Routes[2], AmountToArrive: 9},
		{StationID: s.Stations[206], DestinationID: s.Stations[103], RouteID: s.Routes[6], AmountToArrive: 5, Position: 2},
	}
	require.NoError(t, db.Create(&destinations).Error, "failed to seed station destinations")

	return s
}

// routingStack holds wired-up routing service components.
type routingStack struct {
	Repo    *repository.GormNetworkRepository
	Lookup  *repository.CachedLookup
	Service *application.PlanningService
}

func setupRoutingStack(db *gorm.DB, publisher events.Publisher) *routingStack {
	logger := zap.NewNop()
	repo := repository.NewGormNetworkRepository(db)
	lookup := repository.NewCachedLookup(repo, 128, time.Minute, nil)
	assembler := application.NewCandidateAssembler(repo, 500, nil, logger)
	enumerator := journey.NewEnumerator(lookup, 1, logger)
	return &routingStack{
		Repo:    repo,
		Lookup:  lookup,
		Service: application.NewPlanningService(assembler, enumerator, publisher, nil, logger),
	}
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data any) {
	t.Helper()
	producer := kafka.NewProducer(brokers, zap.NewNop())
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
