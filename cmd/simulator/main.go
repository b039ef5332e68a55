// Package main provides the headless auto-battle simulator binary: it
// loads content, wires the combat core, and runs the encounter tick loop
// until interrupted.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/cory-johannsen/grind/internal/config"
	"github.com/cory-johannsen/grind/internal/engine"
	"github.com/cory-johannsen/grind/internal/game/combat"
	"github.com/cory-johannsen/grind/internal/game/equipment"
	"github.com/cory-johannsen/grind/internal/game/inventory"
	"github.com/cory-johannsen/grind/internal/game/monster"
	"github.com/cory-johannsen/grind/internal/game/progression"
	"github.com/cory-johannsen/grind/internal/game/rng"
	"github.com/cory-johannsen/grind/internal/game/services"
	"github.com/cory-johannsen/grind/internal/game/stats"
	"github.com/cory-johannsen/grind/internal/game/talent"
	"github.com/cory-johannsen/grind/internal/observability"
	"github.com/cory-johannsen/grind/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := rng.NewLoggedSource(rng.NewCryptoSource(), logger)

	templates, err := monster.LoadTemplates(cfg.Content.MonstersDir)
	if err != nil {
		logger.Fatal("loading monster templates", zap.Error(err))
	}
	if len(templates) == 0 {
		logger.Fatal("no monster templates found", zap.String("dir", cfg.Content.MonstersDir))
	}
	itemDefs, err := inventory.LoadItems(cfg.Content.ItemsDir)
	if err != nil {
		logger.Fatal("loading items", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("monsters", len(templates)),
		zap.Int("items", len(itemDefs)),
	)

	items := inventory.NewRegistry(itemDefs)
	inv, err := inventory.NewInventory(cfg.Player.InventoryCapacity)
	if err != nil {
		logger.Fatal("creating inventory", zap.Error(err))
	}

	character := progression.NewCharacter(cfg.Player.Name, stats.Base{
		AttackDamage: cfg.Player.AttackDamage,
		AttackPeriod: cfg.Player.AttackPeriod,
		MaxHealth:    cfg.Player.MaxHealth,
	}, progression.DefaultGrowth, logger)

	loadout := equipment.NewLoadout()
	talents, err := talent.NewTree(starterTalents())
	if err != nil {
		logger.Fatal("building talent tree", zap.Error(err))
	}

	registry := services.NewRegistry()
	animator := engine.NewDelayedAnimator(cfg.Combat.AnimationLead)
	registry.Register(services.CapAnimator, animator)

	rewards := combat.NewDistributor(character, inv, items, src, logger)
	controller, err := combat.NewController(
		combat.Config{
			MobCount:     cfg.Combat.MobCount,
			RespawnDelay: cfg.Combat.RespawnDelay.Seconds(),
		},
		character, loadout, talents, rewards, registry, src, logger,
	)
	if err != nil {
		logger.Fatal("creating combat controller", zap.Error(err))
	}
	controller.Subscribe(eventLogger(logger))

	ticker := engine.NewTicker(cfg.Combat.TickInterval)
	ticker.Register("combat", controller.Tick)

	controller.StartCombat(templates, cfg.Combat.MobCount)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("ticker", ticker)
	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}

	animator.Stop()
	controller.EndCombat()
	logger.Info("final standing",
		zap.Int("level", character.Level()),
		zap.Int("gold", character.Gold()),
		zap.Int("inventory_slots", inv.UsedSlots()),
	)
}

// starterTalents is the built-in talent catalogue for the simulator.
func starterTalents() []talent.Definition {
	return []talent.Definition{
		{
			ID: "heavy-hands", Name: "Heavy Hands", MaxRank: 5,
			PerRank: stats.Bonuses{AttackDamage: 2},
		},
		{
			ID: "thick-skin", Name: "Thick Skin", MaxRank: 5,
			PerRank: stats.Bonuses{MaxHealth: 10, Armor: 0.01},
		},
		{
			ID: "keen-eye", Name: "Keen Eye", MaxRank: 3,
			PerRank: stats.Bonuses{CritChance: 0.02},
		},
		{
			ID: "fortune", Name: "Fortune", MaxRank: 3,
			PerRank: stats.Bonuses{XPBonus: 0.05, GoldBonus: 0.05},
		},
	}
}

// eventLogger adapts combat events onto the structured log stream.
// Progress events are dropped; health changes log at debug, the rest at
// info.
func eventLogger(logger *zap.Logger) func(combat.Event) {
	return func(evt combat.Event) {
		switch evt.Type {
		case combat.EventPlayerAttackProgress, combat.EventMonsterAttackProgress:
			// Too chatty for the log stream; UI consumers subscribe directly.
		case combat.EventPlayerHealthChanged, combat.EventMonsterHealthChanged:
			logger.Debug("health changed",
				zap.Int("slot", evt.Slot),
				zap.String("actor", evt.Actor),
				zap.Float64("health", evt.Health),
				zap.Float64("max_health", evt.MaxHealth),
			)
		case combat.EventPhaseChanged:
			logger.Info("phase changed", zap.String("phase", evt.Phase.String()))
		case combat.EventMonsterSpawned:
			logger.Info("monster spawned",
				zap.Int("slot", evt.Slot),
				zap.String("monster", evt.Actor),
				zap.Float64("health", evt.Health),
			)
		case combat.EventMonsterDied:
			logger.Info("monster died",
				zap.Int("slot", evt.Slot),
				zap.String("monster", evt.Actor),
			)
		case combat.EventTargetChanged:
			logger.Info("target changed", zap.Int("slot", evt.Slot))
		case combat.EventDamageDealt:
			logger.Info("damage dealt",
				zap.Int("slot", evt.Slot),
				zap.Float64("damage", evt.Amount),
				zap.Bool("crit", evt.Crit),
			)
		case combat.EventDamageTaken:
			logger.Info("damage taken",
				zap.Int("slot", evt.Slot),
				zap.String("monster", evt.Actor),
				zap.Float64("damage", evt.Amount),
				zap.Bool("dodged", evt.Dodged),
			)
		case combat.EventItemDropped:
			logger.Info("item dropped",
				zap.String("item", evt.ItemID),
				zap.Int("quantity", evt.Quantity),
			)
		case combat.EventItemLost:
			logger.Warn("item lost, inventory full",
				zap.String("item", evt.ItemID),
				zap.Int("quantity", evt.Quantity),
			)
		case combat.EventRewardGranted:
			logger.Info("reward granted",
				zap.String("monster", evt.Actor),
				zap.Int("xp", evt.XP),
				zap.Int("gold", evt.Gold),
			)
		case combat.EventRespawnScheduled:
			logger.Info("respawn scheduled")
		}
	}
}
