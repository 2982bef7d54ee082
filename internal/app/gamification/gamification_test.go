package gamification_test

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/questlog/questlog/internal/app/gamification"
	"github.com/questlog/questlog/internal/domain"
	"github.com/questlog/questlog/internal/infra/metrics"
	"github.com/questlog/questlog/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newUser(t *testing.T, db *sqlite.DB, id string) {
	t.Helper()
	if err := db.CreateUser(id, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Level Curve Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestLevelForXP_FixedPoints(t *testing.T) {
	tests := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{75, 1},
		{99, 1},
		{100, 2},
		{150, 2},
		{500, 3},
		{599, 3},
		{600, 4},
		{990, 4},
		{1000, 5},
		{1010, 5},
	}
	for _, tt := range tests {
		if got := gamification.LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := gamification.LevelForXP(0)
	for xp := int64(0); xp <= 20000; xp += 37 {
		got := gamification.LevelForXP(xp)
		if got < prev {
			t.Fatalf("LevelForXP regressed at %d XP: %d < %d", xp, got, prev)
		}
		prev = got
	}
}

func TestXPForLevel_RoundTrip(t *testing.T) {
	for level := 1; level <= 100; level++ {
		threshold := gamification.XPForLevel(level)
		if got := gamification.LevelForXP(threshold); got != level {
			t.Errorf("LevelForXP(XPForLevel(%d)=%d) = %d", level, threshold, got)
		}
		if level > 1 {
			if got := gamification.LevelForXP(threshold - 1); got != level-1 {
				t.Errorf("LevelForXP(%d) = %d, want %d", threshold-1, got, level-1)
			}
		}
	}
}

func TestStreakMultiplier(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 1.0},
		{1, 1.05},
		{7, 1.35},
		{30, 2.5},
		{50, 2.5}, // Capped
	}
	for _, tt := range tests {
		if got := gamification.StreakMultiplier(tt.days); got != tt.want {
			t.Errorf("StreakMultiplier(%d) = %.2f, want %.2f", tt.days, got, tt.want)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// XP Ledger Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestLedger_Award(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	newUser(t, db, "u1")

	result, err := ledger.Award("u1", domain.ActionCompleteGoal, domain.DifficultyEasy, 0)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if result.XPAwarded != 50 {
		t.Errorf("expected 50 XP, got %d", result.XPAwarded)
	}
	if result.TotalXPAfter != 50 {
		t.Errorf("expected total 50, got %d", result.TotalXPAfter)
	}
	if result.LeveledUp {
		t.Error("50 XP should not level up (level 2 needs 100)")
	}

	user, err := db.GetUser("u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.CurrentLevel != gamification.LevelForXP(user.TotalXP) {
		t.Errorf("level invariant broken: level %d, xp %d", user.CurrentLevel, user.TotalXP)
	}
}

func TestLedger_Award_EndToEndScenario(t *testing.T) {
	// User at 990 XP with a 7-day streak records medium-difficulty progress:
	// 10 × 1.5 × 1.35 = 20.25 → 20 XP, crossing the level-5 threshold (1000).
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	newUser(t, db, "u1")
	if _, err := db.IncrementUserXP("u1", 990); err != nil {
		t.Fatalf("seed xp: %v", err)
	}

	result, err := ledger.Award("u1", domain.ActionUpdateProgress, domain.DifficultyMedium, 7)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if result.XPAwarded != 20 {
		t.Errorf("expected 20 XP, got %d", result.XPAwarded)
	}
	if result.TotalXPAfter != 1010 {
		t.Errorf("expected total 1010, got %d", result.TotalXPAfter)
	}
	if result.LevelBefore != 4 || result.LevelAfter != 5 {
		t.Errorf("expected 4→5, got %d→%d", result.LevelBefore, result.LevelAfter)
	}
	if !result.LeveledUp {
		t.Error("expected leveledUp = true")
	}
}

func TestLedger_Award_ConcurrentLevelInvariant(t *testing.T) {
	// 8 goroutines × 4 expert completions at 150 XP each. However the
	// level writes interleave, the stored level must end up matching the
	// final total: the monotonic level write cannot be clobbered by a
	// value computed from a stale total.
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	newUser(t, db, "u1")

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				if _, err := ledger.Award("u1", domain.ActionCompleteGoal, domain.DifficultyExpert, 0); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent award: %v", err)
	}

	user, err := db.GetUser("u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.TotalXP != 4800 {
		t.Errorf("total = %d, want 4800", user.TotalXP)
	}
	if want := gamification.LevelForXP(user.TotalXP); user.CurrentLevel != want {
		t.Errorf("stored level %d, LevelForXP(%d) = %d", user.CurrentLevel, user.TotalXP, want)
	}
}

func TestLedger_Award_StreakBonusNonDecreasing(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	newUser(t, db, "u1")

	difficulties := []domain.Difficulty{
		domain.DifficultyEasy, domain.DifficultyMedium,
		domain.DifficultyHard, domain.DifficultyExpert,
	}
	for _, d := range difficulties {
		prev := int64(-1)
		for streak := 0; streak <= 40; streak++ {
			result, err := ledger.Award("u1", domain.ActionUpdateProgress, d, streak)
			if err != nil {
				t.Fatalf("award(%s, %d): %v", d, streak, err)
			}
			if result.XPAwarded < prev {
				t.Errorf("%s: XP decreased from %d to %d at streak %d", d, prev, result.XPAwarded, streak)
			}
			prev = result.XPAwarded
		}
	}
}

func TestLedger_Award_ExpertBeatsEasy(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	newUser(t, db, "u1")

	for _, streak := range []int{0, 5, 30} {
		easy, err := ledger.Award("u1", domain.ActionCompleteGoal, domain.DifficultyEasy, streak)
		if err != nil {
			t.Fatalf("easy: %v", err)
		}
		expert, err := ledger.Award("u1", domain.ActionCompleteGoal, domain.DifficultyExpert, streak)
		if err != nil {
			t.Fatalf("expert: %v", err)
		}
		if expert.XPAwarded <= easy.XPAwarded {
			t.Errorf("streak %d: expert %d should beat easy %d", streak, expert.XPAwarded, easy.XPAwarded)
		}
	}
}

func TestLedger_Award_UnknownDifficulty(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	newUser(t, db, "u1")

	_, err := ledger.Award("u1", domain.ActionUpdateProgress, "nightmare", 0)
	if !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	user, _ := db.GetUser("u1")
	if user.TotalXP != 0 {
		t.Errorf("rejected award must not change XP, got %d", user.TotalXP)
	}
}

func TestLedger_Award_UnknownAction(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	newUser(t, db, "u1")

	_, err := ledger.Award("u1", "delete_goal", domain.DifficultyEasy, 0)
	if !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLedger_Award_UnknownUser(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)

	_, err := ledger.Award("ghost", domain.ActionUpdateProgress, domain.DifficultyEasy, 0)
	if !domain.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestLedger_AwardAchievementXP_NoMultipliers(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	newUser(t, db, "u1")

	def := domain.AchievementDef{ID: "x", XPReward: 123, Condition: domain.GoalsCreated{Count: 1}}
	result, err := ledger.AwardAchievementXP("u1", def)
	if err != nil {
		t.Fatalf("award achievement xp: %v", err)
	}
	if result.XPAwarded != 123 {
		t.Errorf("expected exactly the fixed reward 123, got %d", result.XPAwarded)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Tests
// ═══════════════════════════════════════════════════════════════════════════

var streakNow = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return streakNow.AddDate(0, 0, -offset)
}

func TestCurrentStreak_ThreeConsecutiveDays(t *testing.T) {
	state := gamification.CurrentStreak([]time.Time{day(0), day(1), day(2)}, streakNow)
	if state.CurrentStreak != 3 || !state.IsActive {
		t.Errorf("expected {3, active}, got {%d, %v}", state.CurrentStreak, state.IsActive)
	}
}

func TestCurrentStreak_BrokenAfterGap(t *testing.T) {
	// Only activity three days ago — streak is broken.
	state := gamification.CurrentStreak([]time.Time{day(3)}, streakNow)
	if state.CurrentStreak != 0 || state.IsActive {
		t.Errorf("expected {0, broken}, got {%d, %v}", state.CurrentStreak, state.IsActive)
	}
}

func TestCurrentStreak_EndsYesterday(t *testing.T) {
	// No activity today yet, but yesterday and the day before count.
	state := gamification.CurrentStreak([]time.Time{day(1), day(2)}, streakNow)
	if state.CurrentStreak != 2 || !state.IsActive {
		t.Errorf("expected {2, active}, got {%d, %v}", state.CurrentStreak, state.IsActive)
	}
}

func TestCurrentStreak_GapInsideWindow(t *testing.T) {
	// today, yesterday, then a hole at day-2: streak stops at 2.
	state := gamification.CurrentStreak([]time.Time{day(0), day(1), day(3), day(4)}, streakNow)
	if state.CurrentStreak != 2 {
		t.Errorf("expected streak 2, got %d", state.CurrentStreak)
	}
}

func TestCurrentStreak_NoActivity(t *testing.T) {
	state := gamification.CurrentStreak(nil, streakNow)
	if state.CurrentStreak != 0 || state.IsActive {
		t.Errorf("expected {0, false}, got {%d, %v}", state.CurrentStreak, state.IsActive)
	}
}

func TestCurrentStreak_DuplicateTimestampsSameDay(t *testing.T) {
	state := gamification.CurrentStreak([]time.Time{
		day(0), day(0).Add(-2 * time.Hour), day(1),
	}, streakNow)
	if state.CurrentStreak != 2 {
		t.Errorf("same-day duplicates must not inflate streak: got %d", state.CurrentStreak)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Condition Evaluator Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestRatio_AllVariants(t *testing.T) {
	stats := domain.UserStatsSnapshot{
		GoalsCreated:   5,
		GoalsCompleted: 2,
		ModuleGoalsCompleted: map[domain.Module]int{
			domain.ModuleFitness: 4,
		},
		TotalXP:       150,
		CurrentStreak: 3,
	}

	tests := []struct {
		name string
		cond domain.Condition
		want float64
	}{
		{"goals_created_partial", domain.GoalsCreated{Count: 10}, 0.5},
		{"goals_created_complete", domain.GoalsCreated{Count: 5}, 1.0},
		{"goals_created_clamped", domain.GoalsCreated{Count: 2}, 1.0},
		{"goals_completed", domain.GoalsCompleted{Count: 4}, 0.5},
		{"module_goals", domain.ModuleGoalsCompleted{Module: domain.ModuleFitness, Count: 8}, 0.5},
		{"module_goals_empty", domain.ModuleGoalsCompleted{Module: domain.ModuleWork, Count: 5}, 0.0},
		{"streak_days", domain.StreakDays{Days: 6}, 0.5},
		{"xp_earned", domain.XPEarned{Amount: 300}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gamification.Ratio(tt.cond, stats)
			if err != nil {
				t.Fatalf("ratio: %v", err)
			}
			if got != tt.want {
				t.Errorf("Ratio = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestRatio_ZeroThresholdInvalid(t *testing.T) {
	conds := []domain.Condition{
		domain.GoalsCreated{Count: 0},
		domain.GoalsCompleted{Count: 0},
		domain.ModuleGoalsCompleted{Module: domain.ModuleHome, Count: 0},
		domain.StreakDays{Days: 0},
		domain.XPEarned{Amount: 0},
	}
	for _, c := range conds {
		if _, err := gamification.Ratio(c, domain.UserStatsSnapshot{}); !domain.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", c.Kind(), err)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Engine Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAchievementEngine_Unlock(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	engine := gamification.NewAchievementEngine(db, ledger)
	newUser(t, db, "u1")

	stats := domain.UserStatsSnapshot{GoalsCreated: 1}
	result, err := engine.Evaluate("u1", stats, streakNow)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	found := false
	for _, def := range result.NewlyUnlocked {
		if def.ID == "first_goal" {
			found = true
		}
	}
	if !found {
		t.Error("expected 'first_goal' unlocked at 1 goal created")
	}

	// XP for the unlock was awarded through the ledger.
	user, _ := db.GetUser("u1")
	if user.TotalXP < 25 {
		t.Errorf("expected unlock XP applied, total is %d", user.TotalXP)
	}
}

func TestAchievementEngine_Idempotent(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	engine := gamification.NewAchievementEngine(db, ledger)
	newUser(t, db, "u1")

	stats := domain.UserStatsSnapshot{GoalsCreated: 1, GoalsCompleted: 1}
	first, err := engine.Evaluate("u1", stats, streakNow)
	if err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	if len(first.NewlyUnlocked) == 0 {
		t.Fatal("expected unlocks on first evaluation")
	}
	xpAfterFirst, _ := db.GetUser("u1")

	second, err := engine.Evaluate("u1", stats, streakNow)
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if len(second.NewlyUnlocked) != 0 {
		t.Errorf("second evaluation should unlock nothing, got %d", len(second.NewlyUnlocked))
	}

	xpAfterSecond, _ := db.GetUser("u1")
	if xpAfterSecond.TotalXP != xpAfterFirst.TotalXP {
		t.Errorf("no double XP: %d != %d", xpAfterSecond.TotalXP, xpAfterFirst.TotalXP)
	}
}

func TestAchievementEngine_PartialProgressStored(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	engine := gamification.NewAchievementEngine(db, ledger)
	newUser(t, db, "u1")

	stats := domain.UserStatsSnapshot{GoalsCreated: 5} // Halfway to goals_10
	if _, err := engine.Evaluate("u1", stats, streakNow); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	progress, err := engine.Progress("u1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p := progress["goals_10"]; p.Progress != 0.5 {
		t.Errorf("expected goals_10 progress 0.5, got %.2f", p.Progress)
	}
}

func TestAchievementEngine_ProgressNeverRegresses(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	engine := gamification.NewAchievementEngine(db, ledger)
	newUser(t, db, "u1")

	high := domain.UserStatsSnapshot{GoalsCreated: 8}
	if _, err := engine.Evaluate("u1", high, streakNow); err != nil {
		t.Fatalf("evaluate high: %v", err)
	}

	// A stale snapshot with lower counts must not pull progress back down.
	low := domain.UserStatsSnapshot{GoalsCreated: 3}
	if _, err := engine.Evaluate("u1", low, streakNow); err != nil {
		t.Fatalf("evaluate low: %v", err)
	}

	progress, _ := engine.Progress("u1")
	if p := progress["goals_10"]; p.Progress != 0.8 {
		t.Errorf("expected progress to stay at 0.8, got %.2f", p.Progress)
	}
}

func TestAchievementEngine_CompletedAtSet(t *testing.T) {
	db := testDB(t)
	ledger := gamification.NewLedger(db)
	engine := gamification.NewAchievementEngine(db, ledger)
	newUser(t, db, "u1")

	at := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	if _, err := engine.Evaluate("u1", domain.UserStatsSnapshot{GoalsCreated: 1}, at); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	progress, _ := engine.Progress("u1")
	p := progress["first_goal"]
	if !p.IsCompleted {
		t.Fatal("expected first_goal completed")
	}
	if !p.CompletedAt.Equal(at) {
		t.Errorf("completedAt = %v, want %v", p.CompletedAt, at)
	}
}

func TestAchievementEngine_CatalogConditionsValid(t *testing.T) {
	// Every catalog entry must evaluate cleanly against empty stats and
	// carry a positive reward.
	for _, def := range gamification.AllAchievements() {
		if def.XPReward <= 0 {
			t.Errorf("%s: xp reward must be positive", def.ID)
		}
		if _, err := gamification.Ratio(def.Condition, domain.UserStatsSnapshot{}); err != nil {
			t.Errorf("%s: %v", def.ID, err)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Facade Tests
// ═══════════════════════════════════════════════════════════════════════════

func newFacade(t *testing.T, db *sqlite.DB, now time.Time) *gamification.Facade {
	t.Helper()
	ledger := gamification.NewLedger(db)
	engine := gamification.NewAchievementEngine(db, ledger)
	f := gamification.NewFacade(db, ledger, engine)
	f.SetClock(func() time.Time { return now })
	return f
}

func TestFacade_HandleEvent_EndToEnd(t *testing.T) {
	db := testDB(t)
	f := newFacade(t, db, streakNow)
	newUser(t, db, "u1")

	// Seed: 990 XP and activity on the six previous days → 7-day streak
	// once today's event lands.
	if _, err := db.IncrementUserXP("u1", 990); err != nil {
		t.Fatalf("seed xp: %v", err)
	}
	for i := 1; i <= 6; i++ {
		if err := db.InsertActivityEvent("u1", day(i)); err != nil {
			t.Fatalf("seed activity: %v", err)
		}
	}

	result, err := f.HandleEvent("u1", domain.Event{
		Type:       domain.EventProgressRecorded,
		Difficulty: domain.DifficultyMedium,
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	// 10 × 1.5 × (1 + 7×0.05) = 20.25 → 20
	if result.XPAwarded != 20 {
		t.Errorf("expected 20 XP, got %d", result.XPAwarded)
	}
	if result.CurrentStreak != 7 {
		t.Errorf("expected streak 7, got %d", result.CurrentStreak)
	}
	if !result.LeveledUp || result.NewLevel < 5 {
		t.Errorf("expected level-up to ≥5, got leveledUp=%v level=%d", result.LeveledUp, result.NewLevel)
	}

	// Post-award evaluation must see the 1010 XP total and the 7-day
	// streak, so these unlocks fire in the same call.
	unlocked := map[string]bool{}
	for _, def := range result.NewlyUnlocked {
		unlocked[def.ID] = true
	}
	if !unlocked["xp_1000"] {
		t.Error("expected xp_1000 to unlock from post-award XP total")
	}
	if !unlocked["streak_7"] {
		t.Error("expected streak_7 to unlock from the new streak value")
	}
}

func TestFacade_HandleEvent_AchievementsNotRepeated(t *testing.T) {
	db := testDB(t)
	f := newFacade(t, db, streakNow)
	newUser(t, db, "u1")

	first, err := f.HandleEvent("u1", domain.Event{
		Type:       domain.EventGoalCompleted,
		Difficulty: domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("first event: %v", err)
	}

	second, err := f.HandleEvent("u1", domain.Event{
		Type:       domain.EventGoalCompleted,
		Difficulty: domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("second event: %v", err)
	}

	for _, def := range second.NewlyUnlocked {
		for _, prior := range first.NewlyUnlocked {
			if def.ID == prior.ID {
				t.Errorf("achievement %s unlocked twice", def.ID)
			}
		}
	}
}

func TestFacade_HandleEvent_StreakStartsToday(t *testing.T) {
	db := testDB(t)
	f := newFacade(t, db, streakNow)
	newUser(t, db, "u1")

	result, err := f.HandleEvent("u1", domain.Event{
		Type:       domain.EventProgressRecorded,
		Difficulty: domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	// First ever activity: streak of 1, and the award already carries the
	// one-day bonus: 10 × 1.0 × 1.05 = 10.5, rounded half away from zero.
	if result.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", result.CurrentStreak)
	}
	if result.XPAwarded != 11 {
		t.Errorf("expected 11 XP (one-day bonus applied), got %d", result.XPAwarded)
	}
}

func TestFacade_HandleEvent_LapsedStreakResets(t *testing.T) {
	db := testDB(t)
	f := newFacade(t, db, streakNow)
	newUser(t, db, "u1")

	// Stored streak of 3 whose last activity was three days ago — lapsed.
	if err := db.InsertActivityEvent("u1", day(3)); err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	if err := db.UpdateUserStreak("u1", 3, day(3)); err != nil {
		t.Fatalf("seed streak: %v", err)
	}

	brokenBefore := testutil.ToFloat64(metrics.StreaksBroken)

	result, err := f.HandleEvent("u1", domain.Event{
		Type:       domain.EventProgressRecorded,
		Difficulty: domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	// Today's event restarts the streak at 1, and the lapse was observed.
	if result.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1, got %d", result.CurrentStreak)
	}
	if got := testutil.ToFloat64(metrics.StreaksBroken); got != brokenBefore+1 {
		t.Errorf("streaks_broken_total went %v → %v, want +1", brokenBefore, got)
	}

	// An active streak must not count as broken on the next event.
	brokenBefore = testutil.ToFloat64(metrics.StreaksBroken)
	if _, err := f.HandleEvent("u1", domain.Event{
		Type:       domain.EventProgressRecorded,
		Difficulty: domain.DifficultyEasy,
	}); err != nil {
		t.Fatalf("second event: %v", err)
	}
	if got := testutil.ToFloat64(metrics.StreaksBroken); got != brokenBefore {
		t.Errorf("active streak counted as broken: %v → %v", brokenBefore, got)
	}
}

func TestFacade_HandleEvent_UnknownUser(t *testing.T) {
	db := testDB(t)
	f := newFacade(t, db, streakNow)

	_, err := f.HandleEvent("ghost", domain.Event{
		Type:       domain.EventProgressRecorded,
		Difficulty: domain.DifficultyEasy,
	})
	if !domain.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestFacade_HandleEvent_BadInput(t *testing.T) {
	db := testDB(t)
	f := newFacade(t, db, streakNow)
	newUser(t, db, "u1")

	if _, err := f.HandleEvent("u1", domain.Event{
		Type:       "goal_deleted",
		Difficulty: domain.DifficultyEasy,
	}); !domain.IsValidation(err) {
		t.Errorf("unknown event type: expected validation error, got %v", err)
	}

	if _, err := f.HandleEvent("u1", domain.Event{
		Type:       domain.EventProgressRecorded,
		Difficulty: "brutal",
	}); !domain.IsValidation(err) {
		t.Errorf("unknown difficulty: expected validation error, got %v", err)
	}

	// Rejected events must leave no trace.
	user, _ := db.GetUser("u1")
	if user.TotalXP != 0 || user.StreakCount != 0 {
		t.Errorf("rejected event mutated state: xp=%d streak=%d", user.TotalXP, user.StreakCount)
	}
}

func TestFacade_UserLevelInvariant(t *testing.T) {
	db := testDB(t)
	f := newFacade(t, db, streakNow)
	newUser(t, db, "u1")

	for i := 0; i < 25; i++ {
		if _, err := f.HandleEvent("u1", domain.Event{
			Type:       domain.EventGoalCompleted,
			Difficulty: domain.DifficultyExpert,
		}); err != nil {
			t.Fatalf("event %d: %v", i, err)
		}

		user, err := db.GetUser("u1")
		if err != nil {
			t.Fatalf("get user: %v", err)
		}
		if user.CurrentLevel != gamification.LevelForXP(user.TotalXP) {
			t.Fatalf("invariant broken after event %d: level %d, xp %d", i, user.CurrentLevel, user.TotalXP)
		}
	}
}
