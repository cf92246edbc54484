package main

import (
	"context"
	"log"
	"os"
	"time"

	"urbanfix-backend/internal/auth"
	"urbanfix-backend/internal/config"
	"urbanfix-backend/internal/sheets"
	"urbanfix-backend/internal/solicitud"
)

// Seeds demo requests into the spreadsheet so the admin panel has data to
// show, and prints a bcrypt hash for ADMIN_PASSWORD when no hash is set yet.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.SpreadsheetID == "" {
		log.Fatal("SPREADSHEET_ID is not set")
	}

	client, err := sheets.NewClient(ctx, cfg.SpreadsheetID, cfg.GoogleCredsPath)
	if err != nil {
		log.Fatal(err)
	}

	store := solicitud.NewSheetStore(client, cfg.SheetName)
	service := solicitud.NewService(store, cfg.Timezone)

	existing, err := service.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	seen := make(map[string]bool, len(existing))
	for _, rec := range existing {
		seen[rec.Telefono] = true
	}

	demo := []solicitud.CreateRequest{
		{
			NombreApellido:      "Carla Dominguez",
			Telefono:            "+54 11 5555-0101",
			Direccion:           "Av. Rivadavia 4820, CABA",
			CategoriaTrabajo:    "Plomeria",
			DescripcionProblema: "Perdida de agua debajo de la bacha de la cocina.",
			Urgencia:            "Alta",
			VentanasHorarias:    []string{"Lunes 9-12", "Martes 14-18"},
		},
		{
			NombreApellido:      "Martin Oviedo",
			Telefono:            "+54 11 5555-0102",
			Direccion:           "Callao 1230, CABA",
			CategoriaTrabajo:    "Electricidad",
			DescripcionProblema: "Salta la termica cuando se enciende el aire acondicionado.",
			Urgencia:            "Media",
			VentanasHorarias:    []string{"Miercoles 10-13"},
		},
		{
			NombreApellido:      "Lucia Ferreyra",
			Telefono:            "+54 11 5555-0103",
			Direccion:           "Olazabal 2511, CABA",
			CategoriaTrabajo:    "Pintura",
			DescripcionProblema: "Pintar living y pasillo, hay humedad en una pared.",
			LinkMedia:           "https://photos.example.com/lferreyra",
			Urgencia:            "Baja",
			VentanasHorarias:    []string{"Sabado 9-13", "Sabado 14-17"},
		},
	}

	created := 0
	for _, req := range demo {
		if seen[req.Telefono] {
			log.Printf("seed: %s already present, skipping", req.NombreApellido)
			continue
		}
		if _, err := service.Create(ctx, req); err != nil {
			log.Fatalf("seed error for %s: %v", req.NombreApellido, err)
		}
		created++
	}

	if cfg.AdminPasswordHash == "" {
		if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
			hash, err := auth.HashPassword(password)
			if err != nil {
				log.Fatal(err)
			}
			log.Printf("seed: set ADMIN_PASSWORD_HASH=%s", hash)
		}
	}

	log.Printf("seed completed (%d created)", created)
}
