package mongodb

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

// testDB is shared by all tests in this package.
var testDB *mongo.Database

// TestMain sets up and tears down the test database container. The container
// runs as a single-node replica set because change streams require one.
func TestMain(m *testing.M) {
	ctx := context.Background()

	log.Println("Setting up MongoDB container...")
	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		log.Fatalf("could not start mongodb container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("could not get connection string: %v", err)
	}

	client, err := Connect(ctx, uri, 30*time.Second)
	if err != nil {
		log.Fatalf("could not connect to test mongodb: %v", err)
	}
	testDB = client.Database("fantasy_golf_test")

	code := m.Run()

	if err := client.Disconnect(ctx); err != nil {
		log.Printf("could not disconnect test client: %v", err)
	}
	if err := container.Terminate(ctx); err != nil {
		log.Printf("could not terminate mongodb container: %v", err)
	}

	os.Exit(code)
}
