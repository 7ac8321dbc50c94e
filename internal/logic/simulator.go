package logic

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dynastywire/narrative-api/internal/models"
)

// Prometheus metrics
var (
	simulationsRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "narrative_simulations_total",
		Help: "Total number of win-probability simulations run",
	})

	simulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "narrative_simulation_duration_seconds",
		Help:    "Duration of Monte Carlo win-probability simulations",
		Buckets: prometheus.DefBuckets,
	})
)

const (
	defaultTrials    = 1500
	overtimeResidual = 0.08
	simWorkers       = 4
)

// positionalDefault is the prior a player's distribution shrinks toward
// when few games have been played.
type positionalDefault struct {
	mean   float64
	stddev float64
}

var positionalDefaults = map[string]positionalDefault{
	"QB":  {mean: 18, stddev: 7},
	"RB":  {mean: 12, stddev: 6},
	"WR":  {mean: 12, stddev: 7},
	"TE":  {mean: 8, stddev: 5},
	"K":   {mean: 8, stddev: 3},
	"DEF": {mean: 8, stddev: 5},
	"DST": {mean: 8, stddev: 5},
}

var fallbackDefault = positionalDefault{mean: 9, stddev: 5}

func positionDefault(pos string) positionalDefault {
	if d, ok := positionalDefaults[pos]; ok {
		return d
	}
	return fallbackDefault
}

func isSkillPosition(pos string) bool {
	switch pos {
	case "QB", "RB", "WR", "TE":
		return true
	}
	return false
}

type simulatorService struct {
	trials int
	seed   func() int64 // fresh random stream per call; injectable for tests
	logger *zap.SugaredLogger
}

// NewSimulatorService builds a simulator drawing a fresh entropy-backed
// random stream per call. Reproducibility across calls is explicitly not a
// goal; a newer result always supersedes an older one.
func NewSimulatorService(trials int, logger *zap.SugaredLogger) SimulatorService {
	if trials <= 0 {
		trials = defaultTrials
	}
	return &simulatorService{trials: trials, seed: func() int64 { return time.Now().UnixNano() }, logger: logger}
}

// NewSeededSimulatorService fixes the random seed, for deterministic tests.
func NewSeededSimulatorService(trials int, seed int64, logger *zap.SugaredLogger) SimulatorService {
	if trials <= 0 {
		trials = defaultTrials
	}
	return &simulatorService{trials: trials, seed: func() int64 { return seed }, logger: logger}
}

// playerDist is a player's remaining-points distribution for this request
type playerDist struct {
	mean   float64
	stddev float64
}

// FractionRemaining estimates the share of scoring opportunity left in a
// player's pro game. Overtime keeps a small fixed residual rather than zero.
func FractionRemaining(gs *models.GameState, week, currentWeek int) float64 {
	if gs == nil {
		// Missing game state never null-propagates: future weeks read as
		// not yet started, past weeks as finished.
		if week >= currentWeek {
			return 1.0
		}
		return 0.0
	}
	switch gs.Status {
	case models.GamePre:
		return 1.0
	case models.GamePost:
		return 0.0
	}
	if gs.Quarter > 4 {
		return overtimeResidual
	}
	quartersRemaining := float64(4 - gs.Quarter)
	clock := gs.ClockMinutes / 15
	if clock < 0 {
		clock = 0
	}
	if clock > 1 {
		clock = 1
	}
	return (quartersRemaining + clock) / 4
}

// remainingDistribution computes a player's remaining-points mean/stddev:
// positional default shrunk toward the player's own data by games played,
// scaled by fraction of game remaining and the situational multipliers.
func remainingDistribution(p models.SimPlayer, week, currentWeek int) playerDist {
	def := positionDefault(p.Position)

	mean, stddev := def.mean, def.stddev
	if b := p.Baseline; b != nil {
		// Recency signal: last-3 average when the player has one, else the
		// exponentially decayed mean, else the season mean.
		recency := b.Mean
		if b.Last3Avg > 0 {
			recency = b.Last3Avg
		} else if b.DecayedMean > 0 {
			recency = b.DecayedMean
		}
		own := 0.6*b.Mean + 0.4*recency

		alpha := float64(b.Games) / 6
		if alpha < 0 {
			alpha = 0
		}
		if alpha > 1 {
			alpha = 1
		}
		mean = alpha*own + (1-alpha)*def.mean
		if b.StdDev > 0 {
			stddev = alpha*b.StdDev + (1-alpha)*def.stddev
		}
	}

	frac := FractionRemaining(p.Game, week, currentWeek)
	meanMult, varMult := contextMultipliers(p)

	return playerDist{
		mean:   mean * frac * meanMult,
		stddev: stddev * math.Sqrt(frac) * varMult,
	}
}

// contextMultipliers derives the situational mean/variance adjustments from
// live game state: red zone, possession, and the trailing/leading script.
func contextMultipliers(p models.SimPlayer) (meanMult, varMult float64) {
	meanMult, varMult = 1, 1
	gs := p.Game
	if gs == nil || gs.Status != models.GameIn {
		return meanMult, varMult
	}

	if gs.RedZone && isSkillPosition(p.Position) {
		meanMult *= 1.08
		varMult *= 1.15
	}
	if gs.Possession {
		meanMult *= 1.05
	}

	// Trailing teams throw: pass catchers get a mild boost and backs a mild
	// penalty; the script flips when leading.
	switch {
	case gs.ScoreDiff < 0:
		switch p.Position {
		case "WR", "TE":
			meanMult *= 1.04
		case "RB":
			meanMult *= 0.96
		}
	case gs.ScoreDiff > 0:
		switch p.Position {
		case "WR", "TE":
			meanMult *= 0.96
		case "RB":
			meanMult *= 1.04
		}
	}
	return meanMult, varMult
}

// boxMuller draws one standard normal sample from two uniforms
func boxMuller(r *rand.Rand) float64 {
	u1 := r.Float64()
	for u1 == 0 {
		u1 = r.Float64()
	}
	u2 := r.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Simulate estimates the live win probability for a matchup via Monte Carlo.
// currentWeek disambiguates missing game state (future = pre, past = post).
func (s *simulatorService) Simulate(ctx context.Context, req *models.SimRequest, currentWeek int) (*models.SimResult, error) {
	start := time.Now()
	defer func() {
		simulationsRun.Inc()
		simulationDuration.Observe(time.Since(start).Seconds())
	}()

	trials := req.Trials
	if trials <= 0 {
		trials = s.trials
	}

	homeBase, homeDists := teamDistributions(req.Home, req.Week, currentWeek)
	awayBase, awayDists := teamDistributions(req.Away, req.Week, currentWeek)

	type batchResult struct {
		wins      float64 // home wins, ties count half
		homeTotal float64
		awayTotal float64
	}

	batchSize := trials / simWorkers
	results := make([]batchResult, simWorkers)
	baseSeed := s.seed()

	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < simWorkers; w++ {
		w := w
		n := batchSize
		if w == simWorkers-1 {
			n = trials - batchSize*(simWorkers-1)
		}
		g.Go(func() error {
			r := rand.New(rand.NewSource(baseSeed + int64(w)))
			var res batchResult
			for i := 0; i < n; i++ {
				home := homeBase + sampleRemainder(r, homeDists)
				away := awayBase + sampleRemainder(r, awayDists)
				res.homeTotal += home
				res.awayTotal += away
				switch {
				case home > away:
					res.wins++
				case home == away:
					res.wins += 0.5
				}
			}
			results[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var wins, homeTotal, awayTotal float64
	for _, res := range results {
		wins += res.wins
		homeTotal += res.homeTotal
		awayTotal += res.awayTotal
	}

	p := wins / float64(trials)
	fracLeft := averageFractionRemaining(req, currentWeek)

	calibrated := false
	if len(req.Calibration) > 0 {
		if cp, ok := calibrate(p, fracLeft, req.Calibration); ok {
			p = cp
			calibrated = true
		}
	}

	homeLo, homeHi := wilsonInterval(p, trials)
	awayLo, awayHi := wilsonInterval(1-p, trials)

	return &models.SimResult{
		Home: models.TeamProbability{
			TeamName:    req.Home.TeamName,
			Probability: p,
			CILower:     homeLo,
			CIUpper:     homeHi,
			Projected:   homeTotal / float64(trials),
		},
		Away: models.TeamProbability{
			TeamName:    req.Away.TeamName,
			Probability: 1 - p,
			CILower:     awayLo,
			CIUpper:     awayHi,
			Projected:   awayTotal / float64(trials),
		},
		Trials:     trials,
		Calibrated: calibrated,
		FracLeft:   fracLeft,
	}, nil
}

// teamDistributions splits a lineup into banked points and per-player
// remaining distributions.
func teamDistributions(team models.SimTeam, week, currentWeek int) (base float64, dists []playerDist) {
	dists = make([]playerDist, 0, len(team.Players))
	for _, p := range team.Players {
		base += p.Points
		dists = append(dists, remainingDistribution(p, week, currentWeek))
	}
	return base, dists
}

// sampleRemainder draws one remaining-points sample per player, floored at
// zero, and returns the team sum.
func sampleRemainder(r *rand.Rand, dists []playerDist) float64 {
	var sum float64
	for _, d := range dists {
		if d.mean == 0 && d.stddev == 0 {
			continue
		}
		v := d.mean + d.stddev*boxMuller(r)
		if v > 0 {
			sum += v
		}
	}
	return sum
}

// averageFractionRemaining averages player fractions per side, then across
// both sides. Used to pick the calibration bucket.
func averageFractionRemaining(req *models.SimRequest, currentWeek int) float64 {
	teamFrac := func(team models.SimTeam) float64 {
		if len(team.Players) == 0 {
			return 0
		}
		var sum float64
		for _, p := range team.Players {
			sum += FractionRemaining(p.Game, req.Week, currentWeek)
		}
		return sum / float64(len(team.Players))
	}
	return (teamFrac(req.Home) + teamFrac(req.Away)) / 2
}

// wilsonInterval is the 95% Wilson score interval for a binomial
// proportion; unlike the normal approximation it stays inside [0,1] near
// the extremes.
func wilsonInterval(p float64, n int) (lower, upper float64) {
	if n == 0 {
		return 0, 1
	}
	const z = 1.959963984540054
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	lower = center - half
	upper = center + half
	if lower < 0 {
		lower = 0
	}
	if upper > 1 {
		upper = 1
	}
	return lower, upper
}

// calibrate passes the raw probability through the logistic transform of
// the bucket matching the average fraction remaining.
func calibrate(p, fracLeft float64, buckets []models.CalibrationBucket) (float64, bool) {
	for _, b := range buckets {
		if fracLeft >= b.MinFraction && fracLeft <= b.MaxFraction {
			return sigmoid(b.Slope*logit(p) + b.Intercept), true
		}
	}
	return p, false
}

func logit(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return math.Log(p / (1 - p))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
