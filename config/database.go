package config

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client             *mongo.Client
	UserCollection     *mongo.Collection
	OrderCollection    *mongo.Collection
	SettingsCollection *mongo.Collection
)

// ConnectDatabase abre a conexão com o MongoDB e resolve as coleções.
// O MongoDB aqui é o armazenamento remoto de sincronização, não a fonte
// de verdade (essa fica em memória, persistida no Redis).
func ConnectDatabase(uri, dbName string) error {
	client, err := mongo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	db := client.Database(dbName)
	UserCollection = db.Collection("users")
	OrderCollection = db.Collection("pedidos")
	SettingsCollection = db.Collection("settings")

	log.Println("Connected to MongoDB")
	return nil
}
