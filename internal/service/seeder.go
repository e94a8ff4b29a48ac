package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/repository"
)

var seedQuestions = map[domain.Dimension][]string{
	domain.Realistic: {
		"Armar o reparar objetos mecánicos, eléctricos o electrónicos.",
		"Trabajar al aire libre con plantas, animales o herramientas.",
		"Usar máquinas, herramientas o equipos en un taller o laboratorio.",
		"Conducir vehículos o maquinaria.",
		"Realizar actividades físicas o manuales.",
		"Seguir instrucciones para construir o ensamblar cosas.",
	},
	domain.Investigative: {
		"Hacer experimentos científicos.",
		"Analizar o resolver problemas matemáticos o técnicos.",
		"Leer sobre temas de ciencia, tecnología o naturaleza.",
		"Investigar por qué ocurren ciertos fenómenos.",
		"Trabajar con datos, estadísticas o gráficos.",
		"Usar computadoras para analizar información o programar.",
	},
	domain.Artistic: {
		"Dibujar, pintar o diseñar cosas nuevas.",
		"Escribir historias, poemas o canciones.",
		"Participar en obras de teatro o presentaciones.",
		"Tocar instrumentos musicales o cantar.",
		"Crear contenido visual o multimedia (videos, fotos, diseño).",
		"Expresarte libremente con ideas o estilos propios.",
	},
	domain.Social: {
		"Ayudar a otras personas con sus problemas o necesidades.",
		"Enseñar, explicar o capacitar a otros.",
		"Trabajar en equipo para lograr un objetivo común.",
		"Cuidar a niños, adultos mayores o personas enfermas.",
		"Escuchar y aconsejar a compañeros o amigos.",
		"Participar en actividades de voluntariado o servicio social.",
	},
	domain.Enterprising: {
		"Liderar o coordinar grupos de trabajo.",
		"Convencer a otros de tus ideas o productos.",
		"Tomar decisiones rápidas y asumir responsabilidades.",
		"Iniciar proyectos nuevos o crear tu propio negocio.",
		"Organizar eventos o actividades escolares.",
		"Vender productos o servicios a otras personas.",
	},
	domain.Conventional: {
		"Ordenar archivos, documentos o datos.",
		"Seguir procedimientos o normas con precisión.",
		"Manejar números, planillas o registros contables.",
		"Revisar y corregir errores en documentos.",
		"Trabajar con computadoras en tareas administrativas.",
		"Mantener el orden y la organización en tu entorno.",
	},
}

// RIASECQuestions devuelve el banco de preguntas Likert del test guiado,
// intercalado por dimension (R, I, A, S, E, C, R, I, ...).
func RIASECQuestions() []domain.Question {
	out := make([]domain.Question, 0, len(seedQuestions)*6)
	order := 1
	for i := 0; i < 6; i++ {
		for _, d := range domain.Dimensions {
			texts := seedQuestions[d]
			if i >= len(texts) {
				continue
			}
			out = append(out, domain.Question{
				QuestionText: texts[i],
				QuestionType: domain.QuestionTypeScale,
				Category:     "riasec_" + d.Letter(),
				DisplayOrder: order,
				Options: domain.QuestionOptions{
					ScaleMin: domain.DefaultScaleMin,
					ScaleMax: domain.DefaultScaleMax,
					Anchors:  map[string]string{"1": "Nada interesado", "5": "Muy interesado"},
				},
				CompatibleModes: domain.CompatibleGuided,
			})
			order++
		}
	}
	return out
}

// SeedReport resume lo creado en una corrida del seeder.
type SeedReport struct {
	QuestionsCreated int
	AdminsCreated    int
	CareersSynced    int
}

// Seeder carga los datos iniciales. Todas las operaciones son idempotentes.
type Seeder struct {
	logger    *zap.Logger
	questions repository.QuestionRepository
	users     *UserService
	careers   repository.CareerRepository
}

func NewSeeder(logger *zap.Logger, questions repository.QuestionRepository, users *UserService, careers repository.CareerRepository) *Seeder {
	return &Seeder{logger: logger, questions: questions, users: users, careers: careers}
}

func (s *Seeder) SeedQuestions(ctx context.Context) (int, error) {
	created := 0
	for _, q := range RIASECQuestions() {
		ok, err := s.questions.Create(ctx, q)
		if err != nil {
			return created, fmt.Errorf("seed question %d: %w", q.DisplayOrder, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *Seeder) SeedAdmins(ctx context.Context, emails []string, password string) (int, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	if password == "" {
		s.logger.Warn("admin emails configured without ADMIN_PASSWORD, skipping admin seed")
		return 0, nil
	}
	created := 0
	for _, email := range emails {
		ok, err := s.users.EnsureAdmin(ctx, email, password)
		if err != nil {
			return created, fmt.Errorf("seed admin %s: %w", email, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// Run ejecuta las tres etapas. El catalogo puede ser nil si no hay archivo.
func (s *Seeder) Run(ctx context.Context, adminEmails []string, adminPassword string, catalog []domain.CareerVector) (SeedReport, error) {
	var (
		report SeedReport
		err    error
	)
	if report.QuestionsCreated, err = s.SeedQuestions(ctx); err != nil {
		return report, err
	}
	if report.AdminsCreated, err = s.SeedAdmins(ctx, adminEmails, adminPassword); err != nil {
		return report, err
	}
	if s.careers != nil && len(catalog) > 0 {
		if report.CareersSynced, err = SyncCatalog(ctx, s.careers, catalog); err != nil {
			return report, err
		}
	}
	s.logger.Info("seed completed",
		zap.Int("questions_created", report.QuestionsCreated),
		zap.Int("admins_created", report.AdminsCreated),
		zap.Int("careers_synced", report.CareersSynced),
	)
	return report, nil
}
