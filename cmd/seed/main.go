package main

import (
	"context"
	"studyhub/internal/app"
	"studyhub/internal/config"
	"studyhub/internal/logger"
	"studyhub/internal/model"
	"studyhub/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedQuestion struct {
	difficulty model.Difficulty
	text       string
	options    []string
	correct    string
	why        string
	hints      []string
}

var seedSources = []struct {
	source    model.Source
	questions []seedQuestion
}{
	{
		source: model.Source{Title: "Citologia: organelas", Materia: "Biologia", Topic: "Citologia"},
		questions: []seedQuestion{
			{
				difficulty: model.DifficultyEasy,
				text:       "Qual organela é responsável pela respiração celular?",
				options:    []string{"Ribossomo", "Mitocôndria", "Lisossomo", "Complexo golgiense", "Centríolo"},
				correct:    "Mitocôndria",
				why:        "A mitocôndria realiza o ciclo de Krebs e a cadeia respiratória, produzindo ATP.",
				hints:      []string{"Ela possui DNA próprio.", "Está ligada à produção de ATP.", "Tem cristas na membrana interna."},
			},
			{
				difficulty: model.DifficultyMedium,
				text:       "Onde ocorre a síntese de proteínas?",
				options:    []string{"Ribossomo", "Vacúolo", "Núcleolo", "Peroxissomo", "Parede celular"},
				correct:    "Ribossomo",
				why:        "Os ribossomos traduzem o RNA mensageiro em cadeias polipeptídicas.",
				hints:      []string{"Pode estar livre no citoplasma.", "Também aparece aderido ao retículo."},
			},
		},
	},
	{
		source: model.Source{Title: "Cinemática", Materia: "Física", Topic: "Mecânica"},
		questions: []seedQuestion{
			{
				difficulty: model.DifficultyHard,
				text:       "Um corpo parte do repouso com aceleração de 2 m/s². Qual a distância percorrida em 5 s?",
				options:    []string{"10 m", "20 m", "25 m", "50 m", "100 m"},
				correct:    "25 m",
				why:        "S = a·t²/2 = 2·25/2 = 25 m.",
				hints:      []string{"Use a equação horária do MUV.", "A velocidade inicial é zero.", "S = a·t²/2."},
			},
		},
	},
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to create indexes", "error", err)
	}
	stores := app.New(db)

	var questionIDs []string
	for _, s := range seedSources {
		src := s.source
		if err := stores.SourceRepo.Create(ctx, &src); err != nil {
			log.Fatal("failed to insert source", "title", src.Title, "error", err)
		}
		for _, sq := range s.questions {
			q := &model.Question{
				SourceID:      src.ID,
				Difficulty:    sq.difficulty,
				QuestionText:  sq.text,
				Options:       sq.options,
				CorrectAnswer: sq.correct,
				Explanation:   sq.why,
				Hints:         sq.hints,
			}
			if err := stores.QuestionRepo.Create(ctx, q); err != nil {
				log.Fatal("failed to insert question", "error", err)
			}
			questionIDs = append(questionIDs, q.ID)
		}
		log.Info("seeded source", "title", src.Title, "questions", len(s.questions))
	}

	nb := &model.QuestionNotebook{
		UserID:      "seed",
		Name:        "Revisão geral",
		QuestionIDs: questionIDs,
	}
	if err := stores.NotebookRepo.Create(ctx, nb); err != nil {
		log.Fatal("failed to insert notebook", "error", err)
	}
	log.Info("seeded notebook", "notebookId", nb.ID, "questions", len(questionIDs))
}
