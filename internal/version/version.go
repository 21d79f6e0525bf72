package version

// Version is the current release version
const Version = "1.2.0"
