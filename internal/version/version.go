package version

import (
	"fmt"
	"strconv"
	"time"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/crmweb/internal/version.Version=1.2.3"
var Version = "1.0"

// RepoURL is the project repository URL. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/crmweb/internal/version.RepoURL=https://github.com/yourfork/crmweb"
var RepoURL = "https://github.com/winsbygroup/crmweb"

// Banner prints identifying information about the named program.
func Banner(program string) string {
	y := strconv.Itoa(time.Now().Year())
	copyright := "Copyright 2025-" + y + " Winsby Group LLC. All rights reserved."

	return fmt.Sprintf("%s\n%s (v%s)\n%s\n", product(), program, Version, copyright)
}

func product() string {
	// http://patorjk.com/software/taag/#p=display&f=Standard&t=CRM
	const s = `
   ____ ____  __  __ 
  / ___|  _ \|  \/  |
 | |   | |_) | |\/| |
 | |___|  _ <| |  | |
  \____|_| \_\_|  |_|
`
	return s
}
