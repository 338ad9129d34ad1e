package vision

const identifyPrompt = `You are an AI assistant specialized in identifying food items from images.

Given an image of a food item, identify the food item and determine if nutritional analysis should be triggered.

Respond with the food name and whether nutritional analysis should be triggered.`

const identifyJSONInstructions = `

IMPORTANT: Always respond with valid JSON in this exact format:
{
  "foodName": "name of the identified food item, empty if no food is visible",
  "triggerNutritionalAnalysis": true
}`

const tipsPrompt = `You are a helpful assistant that provides tips for food scans.

Provide a few tips on what types of food scans work best with the NutriSnap app. The tips should be helpful and informative, to improve the user experience and the accuracy of the app.

Example Tips:
- Scan Indian meals like Dosa, Paneer, Dal
- Ensure good lighting when scanning.
- Capture the entire food item in the frame.
- Try scanning single food items first before mixed dishes.
- Clean your camera lens for better image quality.
- Use a plain background to help with food detection.

Return the tips in JSON format.`

const tipsJSONInstructions = `

IMPORTANT: Always respond with valid JSON in this exact format:
{
  "tips": ["tip one", "tip two"]
}`
