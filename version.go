package upgrader

// Version tracks the CMS release whose upgrade tasks this tool carries.
const Version = "5.2.0.alpha"
