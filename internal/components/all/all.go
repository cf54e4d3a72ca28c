// Package all registers every PiPlant component with component.Default.
// Binaries blank-import it so packages.yaml can name any module.
package all

import (
	_ "github.com/nerrad567/piplant-core/internal/components/devicestats" // sensor.device.*
	_ "github.com/nerrad567/piplant-core/internal/components/environment" // sensor.environment.*
	_ "github.com/nerrad567/piplant-core/internal/components/hygrometer"  // sensor.hygrometer.*
	_ "github.com/nerrad567/piplant-core/internal/components/light"       // light.*
	_ "github.com/nerrad567/piplant-core/internal/components/messaging"   // messaging.*
	_ "github.com/nerrad567/piplant-core/internal/components/store"       // database.*
	_ "github.com/nerrad567/piplant-core/internal/components/telemetry"   // telemetry.*
)
