package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/postqms/branch-queue/internal/assign"
	"github.com/postqms/branch-queue/internal/config"
	"github.com/postqms/branch-queue/internal/database"
	"github.com/postqms/branch-queue/internal/handler"
	"github.com/postqms/branch-queue/internal/queue"
	"github.com/postqms/branch-queue/internal/repository"
	"github.com/postqms/branch-queue/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	employees := repository.NewEmployeeRepo(db)
	departments := repository.NewDepartmentRepo(db)
	operations := repository.NewOperationRepo(db)
	tickets := repository.NewTicketRepo(db)
	assignments := repository.NewAssignmentRepo(db)
	tokens := repository.NewTokenRepo(db)
	clients := repository.NewServiceClientRepo(db)

	engine := assign.New(tickets, employees, assignments)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, employees, tokens),
		Users:       handler.NewUserHandler(users),
		Employees:   handler.NewEmployeeHandler(cfg, employees),
		Departments: handler.NewDepartmentHandler(departments, operations),
		Tickets:     handler.NewTicketHandler(tickets, users, operations, departments, employees, engine),
		Queue:       handler.NewQueueHandler(engine),
	}

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, h, clients, rdb)

	// Background consumer writing ticket.created events to logs/tickets.log.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket-consumer: stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
